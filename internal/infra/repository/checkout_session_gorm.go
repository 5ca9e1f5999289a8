package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type checkoutSessionGormRepository struct {
	db *gorm.DB
}

func NewCheckoutSessionGormRepository(db *gorm.DB) repo.CheckoutSessionRepository {
	return &checkoutSessionGormRepository{db: db}
}

func (r *checkoutSessionGormRepository) Create(ctx context.Context, s model.CheckoutSession) error {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return err
	}
	return nil
}

// 新しい順
func (r *checkoutSessionGormRepository) ListRecent(ctx context.Context, limit int) ([]model.CheckoutSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var sessions []model.CheckoutSession
	if err := r.db.WithContext(ctx).
		Model(&model.CheckoutSession{}).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
