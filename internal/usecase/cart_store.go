package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartStore はクライアント側のカートです。
// 変更のたびにスナップショット全体を保存してから返す（write-through）。
// 1つのgoroutineから使う前提なのでロックは持たない。
type CartStore struct {
	feed     repo.ProductFeed
	store    repo.CartSnapshotStore
	key      string
	currency string

	cart model.Cart
}

// DI
func NewCartStore(feed repo.ProductFeed, store repo.CartSnapshotStore, key string, currency string) *CartStore {
	return &CartStore{
		feed:     feed,
		store:    store,
		key:      key,
		currency: currency,
	}
}

// Open は保存済みスナップショットからカートを復元する。キーが無ければ空。
func (s *CartStore) Open(ctx context.Context) error {
	data, found, err := s.store.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if !found {
		s.cart = model.Cart{}
		return nil
	}

	cart, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	s.cart = cart
	return nil
}

// AddOrIncrement は同一商品なら数量+1、無ければ数量1で追加する。
func (s *CartStore) AddOrIncrement(ctx context.Context, productID string) error {
	p, err := s.feed.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return err
	}

	next := s.cart.Clone()
	if i := next.IndexOf(productID); i >= 0 {
		next.Lines[i].Quantity++
	} else {
		//追加時点の価格を保存
		next.Lines = append(next.Lines, model.CartLine{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Currency: s.currency,
			Quantity: 1,
			Image:    p.Image,
		})
	}

	return s.commit(ctx, next)
}

// ChangeQuantity は数量にdeltaを足す。0以下になったら明細ごと消す。
// 明細が無ければ何もしない。
func (s *CartStore) ChangeQuantity(ctx context.Context, productID string, delta int64) error {
	i := s.cart.IndexOf(productID)
	if i < 0 || delta == 0 {
		return nil
	}

	next := s.cart.Clone()
	next.Lines[i].Quantity += delta
	if next.Lines[i].Quantity <= 0 {
		next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	}

	return s.commit(ctx, next)
}

// Remove は明細を削除する。無ければ何もしない。
func (s *CartStore) Remove(ctx context.Context, productID string) error {
	i := s.cart.IndexOf(productID)
	if i < 0 {
		return nil
	}

	next := s.cart.Clone()
	next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	return s.commit(ctx, next)
}

// Clear は空のカートを保存する。
func (s *CartStore) Clear(ctx context.Context) error {
	return s.commit(ctx, model.Cart{})
}

// Discard はカートを空にして保存キーごと消す（チェックアウト成功時）。
func (s *CartStore) Discard(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	s.cart = model.Cart{}
	return nil
}

func (s *CartStore) Subtotal() decimal.Decimal {
	return s.cart.Subtotal()
}

func (s *CartStore) ItemCount() int64 {
	return s.cart.ItemCount()
}

func (s *CartStore) IsEmpty() bool {
	return s.cart.IsEmpty()
}

// 追加順の明細（コピー）
func (s *CartStore) Lines() []model.CartLine {
	return s.cart.Clone().Lines
}

// 保存に成功したときだけメモリ側を差し替える。
func (s *CartStore) commit(ctx context.Context, next model.Cart) error {
	data, err := encodeSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.cart = next
	return nil
}

func encodeSnapshot(c model.Cart) ([]byte, error) {
	lines := c.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

// 数量0以下の明細は読み込まない。
func decodeSnapshot(data []byte) (model.Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Cart{}, nil
	}

	var lines []model.CartLine
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return model.Cart{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	cart := model.Cart{Lines: make([]model.CartLine, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		cart.Lines = append(cart.Lines, l)
	}
	return cart, nil
}
