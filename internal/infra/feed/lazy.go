package feed

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// Loader はフィードの取得元（ファイル・HTTP）
type Loader func(ctx context.Context) ([]model.Product, error)

// Lazy は最初に使われたときに1回だけ読み込む。
// 失敗した場合は次の呼び出しでもう一度読みにいく。
type Lazy struct {
	load Loader

	mu   sync.Mutex
	feed *Feed
}

func NewLazy(load Loader) *Lazy {
	return &Lazy{load: load}
}

func (l *Lazy) get(ctx context.Context) (*Feed, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.feed != nil {
		return l.feed, nil
	}
	products, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	f, err := New(products)
	if err != nil {
		return nil, err
	}
	l.feed = f
	return f, nil
}

func (l *Lazy) List(ctx context.Context) ([]model.Product, error) {
	f, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return f.List(ctx)
}

func (l *Lazy) FindByID(ctx context.Context, id string) (model.Product, error) {
	f, err := l.get(ctx)
	if err != nil {
		return model.Product{}, err
	}
	return f.FindByID(ctx, id)
}

var _ repo.ProductFeed = (*Lazy)(nil)
