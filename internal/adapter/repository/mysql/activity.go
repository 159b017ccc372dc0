package mysql

import (
	"context"

	"gorm.io/gorm"

	activityDomain "amerilend-backend/internal/domain/activity"
)

// ActivityRepository is insert-only; there is deliberately no update or
// delete method.
type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Append(ctx context.Context, e *activityDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ActivityRepository) ListByTarget(ctx context.Context, targetType string, targetID uint64) ([]activityDomain.Entry, error) {
	var out []activityDomain.Entry
	res := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
