package repository

import (
	"context"
	"errors"
)

// サーバーへ届かなかった（接続・タイムアウト・不正なレスポンス）
var ErrNetwork = errors.New("network error")

// POST /create-checkout-session のリクエスト明細
type CheckoutItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Quantity int64   `json:"quantity"`
}

// サーバーの応答。成功なら URL、失敗なら Error。
type CheckoutReply struct {
	StatusCode int
	URL        string
	Error      string
}

// クライアント側から見たセッションゲートウェイの約束。
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, items []CheckoutItem) (CheckoutReply, error)
}
