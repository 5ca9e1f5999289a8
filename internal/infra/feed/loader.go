package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/domain/model"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// 拡張子から判定
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported feed format: %s", path)
	}
}

// LoadFile はローカルファイルからフィードを読む。
func LoadFile(path string) (*Feed, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	products, err := Decode(f, format)
	if err != nil {
		return nil, err
	}
	return New(products)
}

// csv / yaml の1行
type row struct {
	ID       string `csv:"id" yaml:"id"`
	Name     string `csv:"name" yaml:"name"`
	Price    any    `csv:"-" yaml:"price"`
	PriceCSV string `csv:"price" yaml:"-"`
	Category string `csv:"category" yaml:"category"`
	Image    string `csv:"image" yaml:"image"`
}

func Decode(r io.Reader, format Format) ([]model.Product, error) {
	switch format {
	case FormatJSON:
		var products []model.Product
		if err := json.NewDecoder(r).Decode(&products); err != nil {
			return nil, fmt.Errorf("decode json feed: %w", err)
		}
		return products, nil

	case FormatCSV:
		var rows []*row
		if err := gocsv.Unmarshal(r, &rows); err != nil {
			return nil, fmt.Errorf("decode csv feed: %w", err)
		}
		for _, rw := range rows {
			rw.Price = rw.PriceCSV
		}
		return toProducts(rows)

	case FormatYAML:
		var rows []*row
		if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
			if err == io.EOF {
				return []model.Product{}, nil
			}
			return nil, fmt.Errorf("decode yaml feed: %w", err)
		}
		return toProducts(rows)

	default:
		return nil, fmt.Errorf("unsupported feed format: %s", format)
	}
}

func toProducts(rows []*row) ([]model.Product, error) {
	products := make([]model.Product, 0, len(rows))
	for _, rw := range rows {
		price, err := parsePrice(rw.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", rw.ID, err)
		}
		products = append(products, model.Product{
			ID:       rw.ID,
			Name:     rw.Name,
			Price:    price,
			Category: rw.Category,
			Image:    rw.Image,
		})
	}
	return products, nil
}

func parsePrice(v any) (decimal.Decimal, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}
