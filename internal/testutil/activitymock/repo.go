package activitymock

import (
	"context"
	"sync"

	domain "amerilend-backend/internal/domain/activity"
)

// Repo records appended entries in memory so tests can assert on the audit
// trail. ListByTarget reads from the same buffer unless overridden.
type Repo struct {
	mu      sync.Mutex
	Entries []domain.Entry

	AppendFn       func(ctx context.Context, e *domain.Entry) error
	ListByTargetFn func(ctx context.Context, targetType string, targetID uint64) ([]domain.Entry, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) ListByTarget(ctx context.Context, targetType string, targetID uint64) ([]domain.Entry, error) {
	if m.ListByTargetFn != nil {
		return m.ListByTargetFn(ctx, targetType, targetID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Entry
	for _, e := range m.Entries {
		if e.TargetType == targetType && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Actions returns the recorded action names in append order.
func (m *Repo) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Action)
	}
	return out
}
