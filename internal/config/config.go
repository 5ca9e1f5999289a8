package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはサーバー（cmd/api）の設定
type Config struct {
	Port string // サーバーポート（5173）

	StripeSecretKey string // 決済プロバイダのAPIキー（必須）

	PublicDir string // products.json / success.html / cancel.html

	GoEnv    string // dev/prod
	LogLevel string
	LogFile  string // 空なら標準出力のみ

	DB DBConfig // 監査テーブル（任意）

	ProviderTimeout     time.Duration
	BreakerMaxFailures  uint32
	BreakerOpenDuration time.Duration
	MaxBodySize         string
}

// DBConfigは監査用DBの接続情報。URLもHostも空ならDBを使わない。
type DBConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// ClientConfigはクライアント（cmd/shop）の設定
type ClientConfig struct {
	APIURL   string // セッションゲートウェイ
	FeedPath string // 空ならAPIURLの /products.json を取得

	CartStore string // bolt / redis / memory
	CartDB    string // boltファイル
	CartKey   string // カートを保存するキー

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Currency string // 追加時に保存する通貨
	Locale   string // 名前ソート用

	RequestTimeout time.Duration

	GoEnv    string
	LogLevel string
	LogFile  string
}

// .env があれば読む（無くてもよい）
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	timeout, err := durationDefault("PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	openFor, err := durationDefault("BREAKER_OPEN_DURATION", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxFailures, err := atoiDefault("BREAKER_MAX_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "5173"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		PublicDir: getenv("PUBLIC_DIR", "public"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		DB: DBConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     pgPort,
			User:     getenv("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     getenv("POSTGRES_DB", "storefront"),
			SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		},

		ProviderTimeout:     timeout,
		BreakerMaxFailures:  uint32(maxFailures),
		BreakerOpenDuration: openFor,
		MaxBodySize:         getenv("MAX_BODY_SIZE", "1M"),
	}

	//必須チェック
	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(cfg.Port, ":")); err != nil {
		return Config{}, fmt.Errorf("PORT must be number: %w", err)
	}
	if maxFailures < 1 {
		return Config{}, fmt.Errorf("BREAKER_MAX_FAILURES must be >= 1")
	}

	return cfg, nil
}

// ":5173" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func LoadClient() (ClientConfig, error) {
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return ClientConfig{}, err
	}
	timeout, err := durationDefault("SHOP_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		APIURL:   strings.TrimRight(getenv("SHOP_API_URL", "http://localhost:5173"), "/"),
		FeedPath: os.Getenv("SHOP_FEED_PATH"),

		CartStore: strings.ToLower(getenv("CART_STORE", "bolt")),
		CartDB:    getenv("CART_DB_PATH", defaultCartDB()),
		CartKey:   getenv("CART_KEY", "cart"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		Currency: getenv("SHOP_CURRENCY", "INR"),
		Locale:   getenv("SHOP_LOCALE", "en-IN"),

		RequestTimeout: timeout,

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "warn"),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	switch cfg.CartStore {
	case "bolt", "redis", "memory":
	default:
		return ClientConfig{}, fmt.Errorf("CART_STORE must be one of bolt, redis, memory")
	}
	if cfg.CartKey == "" {
		return ClientConfig{}, fmt.Errorf("CART_KEY is required")
	}

	return cfg, nil
}

func defaultCartDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cart.db"
	}
	return filepath.Join(dir, "storefront", "cart.db")
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
