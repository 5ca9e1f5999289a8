package feed

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// Feed は読み込み済みの商品フィード（読み取り専用）。
type Feed struct {
	products []model.Product
	byID     map[string]int
}

// New はIDの空・重複を拒否する。
func New(products []model.Product) (*Feed, error) {
	f := &Feed{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("product #%d: id required", i)
		}
		if _, dup := f.byID[id]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", id)
		}
		p.ID = id
		f.byID[id] = len(f.products)
		f.products = append(f.products, p)
	}
	return f, nil
}

// List はコピーを返す。
func (f *Feed) List(context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *Feed) FindByID(_ context.Context, id string) (model.Product, error) {
	i, ok := f.byID[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return f.products[i], nil
}

var _ repo.ProductFeed = (*Feed)(nil)
