package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// プロバイダ呼び出しの失敗。詳細はログのみ、クライアントへは出さない。
var ErrProvider = errors.New("payment provider error")

// ホスト型決済セッションの作成依頼
type SessionRequest struct {
	LineItems          []model.LineItem
	PaymentMethodTypes []string
	SuccessURL         string
	CancelURL          string
}

type SessionResult struct {
	ID  string
	URL string
}

// 外部決済プロバイダの約束。失敗は必ず error で返す（panicしない）。
type PaymentProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (SessionResult, error)
}
