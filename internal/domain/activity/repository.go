package activity

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByTarget(ctx context.Context, targetType string, targetID uint64) ([]Entry, error)
}
