package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SystemStore interface {
	Create(ctx context.Context, s *System) error
	GetByID(ctx context.Context, id uuid.UUID) (*System, error)
	List(ctx context.Context) ([]System, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CheckStore interface {
	Create(ctx context.Context, c *CheckRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*CheckRun, error)
	ListBySystem(ctx context.Context, systemID uuid.UUID, limit int) ([]CheckRun, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
