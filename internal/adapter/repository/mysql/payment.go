package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paymentDomain "amerilend-backend/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint64) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListByApplicationID(ctx context.Context, applicationID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_application_id = ?", applicationID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) GetConfirmedByApplicationID(ctx context.Context, applicationID uint64) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_application_id = ? AND status = ?", applicationID, paymentDomain.StatusConfirmed).
		First(&out)
	return &out, res.Error
}
