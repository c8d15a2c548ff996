package store

import (
	"context"
	"errors"
	"time"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckStore struct {
	db *pgxpool.Pool
}

func NewCheckStore(db *pgxpool.Pool) *CheckStore {
	return &CheckStore{db: db}
}

func (s *CheckStore) Create(ctx context.Context, c *domain.CheckRun) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO check_runs (left_id, right_id, bisimilar, block_count, state_count, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		c.LeftID, c.RightID, c.Bisimilar, c.BlockCount, c.StateCount, c.DurationMS,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *CheckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CheckRun, error) {
	c := &domain.CheckRun{}
	err := s.db.QueryRow(ctx,
		`SELECT id, left_id, right_id, bisimilar, block_count, state_count, duration_ms, created_at
		 FROM check_runs WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.LeftID, &c.RightID, &c.Bisimilar, &c.BlockCount, &c.StateCount, &c.DurationMS, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CheckStore) ListBySystem(ctx context.Context, systemID uuid.UUID, limit int) ([]domain.CheckRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, left_id, right_id, bisimilar, block_count, state_count, duration_ms, created_at
		 FROM check_runs
		 WHERE left_id = $1 OR right_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		systemID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.CheckRun
	for rows.Next() {
		var c domain.CheckRun
		if err := rows.Scan(&c.ID, &c.LeftID, &c.RightID, &c.Bisimilar, &c.BlockCount, &c.StateCount, &c.DurationMS, &c.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, c)
	}
	return runs, rows.Err()
}

func (s *CheckStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM check_runs WHERE created_at < $1`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
