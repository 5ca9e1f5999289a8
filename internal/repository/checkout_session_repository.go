package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 作成済み決済セッションの記録の約束。
type CheckoutSessionRepository interface {
	Create(ctx context.Context, s model.CheckoutSession) error
	ListRecent(ctx context.Context, limit int) ([]model.CheckoutSession, error)
}

// DBが無い構成用。何も保存しない。
type NopCheckoutSessionRepository struct{}

func (NopCheckoutSessionRepository) Create(context.Context, model.CheckoutSession) error {
	return nil
}

func (NopCheckoutSessionRepository) ListRecent(context.Context, int) ([]model.CheckoutSession, error) {
	return []model.CheckoutSession{}, nil
}
