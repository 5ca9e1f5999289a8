package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	repo "storefront/internal/repository"
)

// CheckoutClient はクライアント側のチェックアウト。
// 実行中にもう一度呼ばれたら ErrCheckoutInProgress（二重送信防止）。
// 防げるのは同じプロセス内だけ。
type CheckoutClient struct {
	cart    *CartStore
	gateway repo.CheckoutGateway

	inFlight atomic.Bool
}

// DI
func NewCheckoutClient(cart *CartStore, gateway repo.CheckoutGateway) *CheckoutClient {
	return &CheckoutClient{cart: cart, gateway: gateway}
}

// Checkout はセッションを作り、リダイレクト先URLを返す。
// 成功したらカートの保存キーを消す。
func (c *CheckoutClient) Checkout(ctx context.Context) (string, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return "", ErrCheckoutInProgress
	}
	defer c.inFlight.Store(false)

	//空判定と送信内容は同じスナップショットで見る
	lines := c.cart.Lines()
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}
	items := make([]repo.CheckoutItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, repo.CheckoutItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price.InexactFloat64(),
			Currency: l.Currency,
			Quantity: l.Quantity,
		})
	}

	reply, err := c.gateway.CreateCheckoutSession(ctx, items)
	if err != nil {
		return "", err
	}
	if reply.URL == "" {
		if reply.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrCheckoutFailed, reply.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrCheckoutFailed, reply.StatusCode)
	}

	//リダイレクトはするのでURLは返す
	if err := c.cart.Discard(ctx); err != nil {
		return reply.URL, err
	}
	return reply.URL, nil
}
