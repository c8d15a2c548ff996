package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SystemStore struct {
	db *pgxpool.Pool
}

func NewSystemStore(db *pgxpool.Pool) *SystemStore {
	return &SystemStore{db: db}
}

func (s *SystemStore) Create(ctx context.Context, sys *domain.System) error {
	transitions, err := json.Marshal(sys.Transitions)
	if err != nil {
		return err
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO systems (name, initial_state, transitions)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		sys.Name, sys.Initial, transitions,
	).Scan(&sys.ID, &sys.CreatedAt)
}

func (s *SystemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.System, error) {
	sys := &domain.System{}
	var transitions []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, name, initial_state, transitions, created_at
		 FROM systems WHERE id = $1`,
		id,
	).Scan(&sys.ID, &sys.Name, &sys.Initial, &transitions, &sys.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(transitions, &sys.Transitions); err != nil {
		return nil, err
	}
	return sys, nil
}

func (s *SystemStore) List(ctx context.Context) ([]domain.System, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, initial_state, transitions, created_at
		 FROM systems ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var systems []domain.System
	for rows.Next() {
		var sys domain.System
		var transitions []byte
		if err := rows.Scan(&sys.ID, &sys.Name, &sys.Initial, &transitions, &sys.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(transitions, &sys.Transitions); err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	return systems, rows.Err()
}

func (s *SystemStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM systems WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
