package service

import (
	"context"
	"errors"
	"time"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSystemNotFound    = errors.New("system not found")
	ErrCheckNotFound     = errors.New("check not found")
	ErrSystemNameMissing = errors.New("name is required")
)

// CheckService owns system uploads and bisimilarity checks. The refinement
// engine itself is pure; this layer adds persistence and logging around it.
type CheckService struct {
	systemStore domain.SystemStore
	checkStore  domain.CheckStore
	logger      *zap.Logger
}

func NewCheckService(ss domain.SystemStore, cs domain.CheckStore, logger *zap.Logger) *CheckService {
	return &CheckService{
		systemStore: ss,
		checkStore:  cs,
		logger:      logger,
	}
}

// UploadSystem parses a .lts source and persists the resulting system. The
// parse warnings are returned so callers can surface skipped lines; they are
// also logged, since a skipped line usually means a typo in the model.
func (s *CheckService) UploadSystem(ctx context.Context, name, source string) (*domain.System, []ParseWarning, error) {
	if name == "" {
		return nil, nil, ErrSystemNameMissing
	}

	res, err := ParseLTS(source)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		s.logger.Warn("skipped malformed lts line",
			zap.String("system", name),
			zap.Int("line", w.Line),
			zap.String("reason", w.Reason))
	}

	sys := &domain.System{
		Name:        name,
		Initial:     res.Initial,
		Transitions: res.LTS.Transitions(),
	}
	if err := s.systemStore.Create(ctx, sys); err != nil {
		return nil, nil, err
	}

	s.logger.Info("system uploaded",
		zap.String("id", sys.ID.String()),
		zap.String("name", name),
		zap.Int("states", res.LTS.NumStates()),
		zap.Int("transitions", res.LTS.NumTransitions()))
	return sys, res.Warnings, nil
}

func (s *CheckService) GetSystem(ctx context.Context, id uuid.UUID) (*domain.System, error) {
	sys, err := s.systemStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSystemNotFound
		}
		return nil, err
	}
	return sys, nil
}

func (s *CheckService) ListSystems(ctx context.Context) ([]domain.System, error) {
	return s.systemStore.List(ctx)
}

func (s *CheckService) DeleteSystem(ctx context.Context, id uuid.UUID) error {
	err := s.systemStore.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSystemNotFound
	}
	return err
}

// Quotient returns the strong-bisimulation equivalence classes of one stored
// system. Diagnostic view; the partition is recomputed on every call.
func (s *CheckService) Quotient(ctx context.Context, id uuid.UUID) ([][]domain.State, error) {
	sys, err := s.GetSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	partition := Refine(sys.Build())
	blocks := make([][]domain.State, len(partition))
	for i, b := range partition {
		blocks[i] = b.Sorted()
	}
	return blocks, nil
}

// Run fetches both systems, decides bisimilarity of their initial states, and
// persists the verdict as a CheckRun.
func (s *CheckService) Run(ctx context.Context, leftID, rightID uuid.UUID) (*domain.CheckRun, error) {
	left, err := s.GetSystem(ctx, leftID)
	if err != nil {
		return nil, err
	}
	right, err := s.GetSystem(ctx, rightID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome := Check(left.Build(), left.Initial, right.Build(), right.Initial)
	elapsed := time.Since(start)

	run := &domain.CheckRun{
		LeftID:     leftID,
		RightID:    rightID,
		Bisimilar:  outcome.Bisimilar,
		BlockCount: outcome.BlockCount,
		StateCount: outcome.StateCount,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := s.checkStore.Create(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("bisimilarity check completed",
		zap.String("id", run.ID.String()),
		zap.String("left", leftID.String()),
		zap.String("right", rightID.String()),
		zap.Bool("bisimilar", run.Bisimilar),
		zap.Int("blocks", run.BlockCount),
		zap.Duration("elapsed", elapsed))
	return run, nil
}

func (s *CheckService) GetCheck(ctx context.Context, id uuid.UUID) (*domain.CheckRun, error) {
	run, err := s.checkStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCheckNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *CheckService) ListChecks(ctx context.Context, systemID uuid.UUID, limit int) ([]domain.CheckRun, error) {
	return s.checkStore.ListBySystem(ctx, systemID, limit)
}
