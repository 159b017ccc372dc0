package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	feeDomain "amerilend-backend/internal/domain/feeconfig"
)

type FeeConfigRepository struct{ db *gorm.DB }

func NewFeeConfigRepository(db *gorm.DB) *FeeConfigRepository { return &FeeConfigRepository{db: db} }

func (r *FeeConfigRepository) Active(ctx context.Context) (*feeDomain.Config, error) {
	var out feeDomain.Config
	res := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, feeDomain.ErrNoActive
	}
	return &out, res.Error
}

func (r *FeeConfigRepository) Save(ctx context.Context, c *feeDomain.Config) error {
	return r.db.WithContext(ctx).Save(c).Error
}
