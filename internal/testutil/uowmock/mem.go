package uowmock

import (
	"context"
	"sync"

	"amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/payment"
	"amerilend-backend/internal/domain/uow"
	"amerilend-backend/internal/testutil/activitymock"
	"amerilend-backend/internal/testutil/applicationmock"
	"amerilend-backend/internal/testutil/feeconfigmock"
	"amerilend-backend/internal/testutil/paymentmock"
)

// Mem is a mutex-serialized in-memory UnitOfWork. Each transaction holds the
// store lock for its whole body, so concurrent callers observe the same
// serialization a row-locked database transaction gives them. Useful for
// racing two settlement attempts against one application.
type Mem struct {
	mu sync.Mutex

	Applications map[uint64]*application.Application
	Payments     map[uint64]*payment.Payment
	Activity     *activitymock.Repo
	FeeConfigs   *feeconfigmock.Repo

	nextApplicationID uint64
	nextPaymentID     uint64
}

var _ uow.UnitOfWork = (*Mem)(nil)

func NewMem() *Mem {
	return &Mem{
		Applications:      map[uint64]*application.Application{},
		Payments:          map[uint64]*payment.Payment{},
		Activity:          &activitymock.Repo{},
		FeeConfigs:        &feeconfigmock.Repo{},
		nextApplicationID: 1,
		nextPaymentID:     1,
	}
}

// Put stores an application (test setup, outside any tx). Seeded IDs advance
// the ID counter so later Creates cannot collide with them.
func (m *Mem) Put(a *application.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.nextApplicationID
	}
	if a.ID >= m.nextApplicationID {
		m.nextApplicationID = a.ID + 1
	}
	cp := *a
	m.Applications[a.ID] = &cp
}

// PutPayment stores a payment, assigning an ID when unset.
func (m *Mem) PutPayment(p *payment.Payment) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextPaymentID
	}
	if p.ID >= m.nextPaymentID {
		m.nextPaymentID = p.ID + 1
	}
	cp := *p
	m.Payments[p.ID] = &cp
	return p.ID
}

// Application returns a copy of the stored application.
func (m *Mem) Application(id uint64) *application.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Applications[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

// Payment returns a copy of the stored payment.
func (m *Mem) Payment(id uint64) *payment.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Payments[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ConfirmedCount counts confirmed payments for an application.
func (m *Mem) ConfirmedCount(applicationID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.Payments {
		if p.LoanApplicationID == applicationID && p.Status == payment.StatusConfirmed {
			n++
		}
	}
	return n
}

// AppRepo returns a repository view for reads outside any transaction. Each
// call takes the store lock on its own.
func (m *Mem) AppRepo() application.Repository {
	return &applicationmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*application.Application, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.getApplication(ctx, id)
		},
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*application.Application, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.getApplication(ctx, id)
		},
	}
}

// PaymentRepo is the out-of-tx counterpart for payments.
func (m *Mem) PaymentRepo() payment.Repository {
	return &paymentmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*payment.Payment, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.getPayment(ctx, id)
		},
	}
}

func (m *Mem) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.repos())
}

func (m *Mem) WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *application.Application) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Applications[applicationID]
	if !ok {
		return application.ErrNotFound
	}
	// Hand the body a copy; only Save writes back, like a real transaction.
	cp := *a
	return fn(m.repos(), &cp)
}

// repos builds repositories bound to the live maps. Callers already hold the
// store lock, so these must not take it again.
func (m *Mem) repos() uow.Repos {
	apps := &applicationmock.Repo{
		GetByIDFn:          m.getApplication,
		GetByIDForUpdateFn: m.getApplication,
		SaveFn: func(_ context.Context, a *application.Application) error {
			cp := *a
			m.Applications[a.ID] = &cp
			return nil
		},
		CreateFn: func(_ context.Context, a *application.Application) error {
			if a.ID == 0 {
				a.ID = m.nextApplicationID
				m.nextApplicationID++
			}
			cp := *a
			m.Applications[a.ID] = &cp
			return nil
		},
	}
	pays := &paymentmock.Repo{
		GetByIDFn:          m.getPayment,
		GetByIDForUpdateFn: m.getPayment,
		CreateFn: func(_ context.Context, p *payment.Payment) error {
			if p.ID == 0 {
				p.ID = m.nextPaymentID
				m.nextPaymentID++
			}
			cp := *p
			m.Payments[p.ID] = &cp
			return nil
		},
		SaveFn: func(_ context.Context, p *payment.Payment) error {
			cp := *p
			m.Payments[p.ID] = &cp
			return nil
		},
		GetConfirmedByApplicationIDFn: func(_ context.Context, applicationID uint64) (*payment.Payment, error) {
			for _, p := range m.Payments {
				if p.LoanApplicationID == applicationID && p.Status == payment.StatusConfirmed {
					cp := *p
					return &cp, nil
				}
			}
			return nil, payment.ErrNotFound
		},
	}
	return uow.Repos{
		Applications: apps,
		Payments:     pays,
		Activities:   m.Activity,
		FeeConfigs:   m.FeeConfigs,
	}
}

func (m *Mem) getApplication(_ context.Context, id uint64) (*application.Application, error) {
	a, ok := m.Applications[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Mem) getPayment(_ context.Context, id uint64) (*payment.Payment, error) {
	p, ok := m.Payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
