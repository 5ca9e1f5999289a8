package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/api"
	"storefront/internal/infra/feed"
	"storefront/internal/infra/storage"
	"storefront/internal/logger"
	"storefront/internal/presenter"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// コマンド1回分の部品
type app struct {
	cfg      config.ClientConfig
	log      *zap.Logger
	feed     repo.ProductFeed
	store    repo.CartSnapshotStore
	cart     *usecase.CartStore
	checkout *usecase.CheckoutClient
	catalog  *usecase.Catalog
	money    *presenter.Money

	// 壊れたスナップショットでも clear だけは通す
	openErr error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	//エラーでも保存先は閉じる（boltのロック）
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, notice(err))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var ephemeral bool

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Storefront: browse products, manage the cart and check out",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), ephemeral)
		},
	}
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the cart in memory only")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newQtyCmd(a, "inc", "Increase a cart line by one", 1),
		newQtyCmd(a, "dec", "Decrease a cart line by one (removes it at zero)", -1),
		newSetDeltaCmd(a),
		newRemoveCmd(a),
		newCartCmd(a),
		newClearCmd(a),
		newCheckoutCmd(a),
	)

	return root
}

func (a *app) setup(ctx context.Context, ephemeral bool) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if ephemeral {
		cfg.CartStore = "memory"
	}
	a.cfg = cfg

	a.log = logger.New(logger.Options{
		Service: "shop",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})

	client := api.NewClient(cfg.APIURL, cfg.RequestTimeout)

	//フィードは使うときに1回だけ読む
	if cfg.FeedPath != "" {
		a.feed = feed.NewLazy(func(ctx context.Context) ([]model.Product, error) {
			f, err := feed.LoadFile(cfg.FeedPath)
			if err != nil {
				return nil, err
			}
			return f.List(ctx)
		})
	} else {
		a.feed = feed.NewLazy(client.FetchProducts)
	}

	a.store, err = openStore(ctx, cfg)
	if err != nil {
		return err
	}

	a.cart = usecase.NewCartStore(a.feed, a.store, cfg.CartKey, cfg.Currency)
	if err := a.cart.Open(ctx); err != nil {
		if !errors.Is(err, usecase.ErrCorruptSnapshot) {
			return err
		}
		a.log.Warn("cart snapshot unreadable", zap.Error(err))
		a.openErr = err
	}

	a.checkout = usecase.NewCheckoutClient(a.cart, client)
	a.catalog = usecase.NewCatalog(cfg.Locale)
	a.money = presenter.NewMoney(cfg.Locale, cfg.Currency)
	return nil
}

func openStore(ctx context.Context, cfg config.ClientConfig) (repo.CartSnapshotStore, error) {
	switch cfg.CartStore {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return storage.NewRedisStore(rdb), nil
	default:
		return storage.OpenBolt(cfg.CartDB)
	}
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// カートが読めないときは clear 以外を止める
func (a *app) requireCart() error {
	if a.openErr != nil {
		return fmt.Errorf("%w (run `shop clear` to reset it)", a.openErr)
	}
	return nil
}
