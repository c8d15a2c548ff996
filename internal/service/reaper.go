package service

import (
	"context"
	"sync"
	"time"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"go.uber.org/zap"
)

const defaultReaperInterval = 1 * time.Hour

// ReaperService prunes check runs older than the retention window on a
// periodic schedule. Stored systems are never reaped; only their run history.
type ReaperService struct {
	checkStore domain.CheckStore
	logger     *zap.Logger

	retention time.Duration
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewReaperService(cs domain.CheckStore, retention time.Duration, logger *zap.Logger) *ReaperService {
	return &ReaperService{
		checkStore: cs,
		logger:     logger,
		retention:  retention,
		interval:   defaultReaperInterval,
		stopCh:     make(chan struct{}),
	}
}

func (s *ReaperService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the reaper in a background goroutine.
func (s *ReaperService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("check reaper started",
			zap.Duration("interval", s.interval),
			zap.Duration("retention", s.retention))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("check reaper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the reaper.
func (s *ReaperService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ReaperService) run(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.checkStore.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to delete old check runs", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("deleted old check runs", zap.Int64("count", deleted))
	}
}
