package repository

import (
	"context"

	"github.com/alexanderramin/doone/internal/domain"
)

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByDate(ctx context.Context, dateKey string) ([]*domain.Task, error)
	ListAll(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// ShiftPositions moves every task of the date with position >= from by
	// delta; used when inserting at the top or reordering.
	ShiftPositions(ctx context.Context, dateKey string, from, delta int) error
	MaxPosition(ctx context.Context, dateKey string) (int, error)
}

// KVStore is the abstract string-keyed blob store backing the ledger, the
// streak tracker and the settings. Values are opaque strings; callers own
// the encoding. Get returns ErrNotFound for absent keys.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
