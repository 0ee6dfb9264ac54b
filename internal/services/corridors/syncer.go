// Package corridors keeps the snapshot store in step with the corridor source.
package corridors

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/storage/corridorsnapshots"
	"go.uber.org/zap"
)

type corridorSource interface {
	ListCorridors(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error)
}

type snapshotStore interface {
	Save(snapshot domain.CorridorSnapshot) (uint64, error)
	Latest(period domain.Period) (domain.CorridorSnapshotRecord, error)
}

// Syncer fetches corridors from a source and records them as snapshots.
type Syncer struct {
	source corridorSource
	store  snapshotStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSyncer creates a new Syncer.
func NewSyncer(source corridorSource, store snapshotStore, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Refresh fetches the corridors for period, stores them and returns them.
func (s *Syncer) Refresh(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error) {
	if !period.IsValid() {
		return nil, errors.Wrapf(domain.ErrUnknownPeriod, "%q", period)
	}

	corridors, err := s.source.ListCorridors(ctx, period)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch corridors for %s", period)
	}

	snapshot := domain.NewCorridorSnapshot(s.now().UTC(), period, corridors)
	index, err := s.store.Save(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "save corridor snapshot")
	}

	s.logger.Info("corridor snapshot stored",
		zap.String("period", period.String()),
		zap.Int("corridors", len(corridors)),
		zap.Uint64("index", index))

	return corridors, nil
}

// Load returns the latest stored corridors for period, fetching them when
// nothing has been stored yet.
func (s *Syncer) Load(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error) {
	record, err := s.store.Latest(period)
	if err == nil {
		return record.Snapshot.Corridors, nil
	}
	if !errors.Is(err, corridorsnapshots.ErrNoSnapshot) {
		return nil, errors.Wrap(err, "load latest corridor snapshot")
	}
	return s.Refresh(ctx, period)
}

// Fetch refreshes period from the source and falls back to the latest stored
// snapshot when the source is unavailable.
func (s *Syncer) Fetch(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error) {
	corridors, err := s.Refresh(ctx, period)
	if err == nil || errors.Is(err, domain.ErrUnknownPeriod) {
		return corridors, err
	}

	record, latestErr := s.store.Latest(period)
	if latestErr != nil {
		return nil, err
	}
	s.logger.Warn("source unavailable, serving stored corridors",
		zap.String("period", period.String()),
		zap.Time("snapshot_ts", record.Snapshot.Timestamp),
		zap.Error(err))
	return record.Snapshot.Corridors, nil
}

// Run refreshes every period immediately and then on each tick until ctx is done.
// Failed refreshes are logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("refresh interval must be positive")
	}

	s.refreshAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

func (s *Syncer) refreshAll(ctx context.Context) {
	for _, period := range domain.Periods() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Refresh(ctx, period); err != nil {
			s.logger.Error("failed to refresh corridors", zap.String("period", period.String()), zap.Error(err))
		}
	}
}
