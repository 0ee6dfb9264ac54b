package corridorsnapshots

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultSnapshotDir   = "./wal/corridors"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "corridor_snapshot_"
)

// ErrNoSnapshot is returned when nothing has been stored for a period yet.
var ErrNoSnapshot = errors.New("no corridor snapshot stored")

// snapshotLog is the subset of *gowal.Wal the store relies on.
type snapshotLog interface {
	Get(index uint64) (string, []byte, error)
	Write(index uint64, key string, value []byte) error
	CurrentIndex() uint64
	Close() error
}

// WALStore persists corridor snapshots in a WAL so the UI survives restarts
// and stream consumers can resume from a log index.
type WALStore struct {
	wal snapshotLog
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "corridors_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init corridor snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the snapshot to the WAL and returns its index.
func (s *WALStore) Save(snapshot domain.CorridorSnapshot) (uint64, error) {
	if s == nil || s.wal == nil {
		return 0, errors.New("corridor snapshot store is not initialized")
	}
	if !snapshot.Period.IsValid() {
		return 0, errors.Wrapf(domain.ErrUnknownPeriod, "snapshot period %q", snapshot.Period)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return 0, errors.Wrap(err, "marshal corridor snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, snapshotKey(snapshot.Period), payload); err != nil {
		return 0, errors.Wrap(err, "write corridor snapshot")
	}
	return nextIndex, nil
}

// SnapshotsAfter returns all snapshots written after the provided WAL index.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.CorridorSnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("corridor snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.CorridorSnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "read corridor snapshot %d", idx)
		}
		// empty key: index rotated out with its segment
		if !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		snapshot, err := decode(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.CorridorSnapshotRecord{
			Index:    idx,
			Snapshot: snapshot,
		})
	}

	return records, nil
}

// Latest returns the most recent snapshot stored for period.
func (s *WALStore) Latest(period domain.Period) (domain.CorridorSnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return domain.CorridorSnapshotRecord{}, errors.New("corridor snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	want := snapshotKey(period)
	for idx := s.wal.CurrentIndex(); idx > 0; idx-- {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return domain.CorridorSnapshotRecord{}, errors.Wrapf(err, "read corridor snapshot %d", idx)
		}
		if key != want {
			continue
		}
		snapshot, err := decode(payload)
		if err != nil {
			return domain.CorridorSnapshotRecord{}, err
		}
		return domain.CorridorSnapshotRecord{Index: idx, Snapshot: snapshot}, nil
	}

	return domain.CorridorSnapshotRecord{}, errors.Wrapf(ErrNoSnapshot, "period %s", period)
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("corridor snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

func snapshotKey(period domain.Period) string {
	return snapshotKeyPrefix + period.String()
}

func decode(payload []byte) (domain.CorridorSnapshot, error) {
	var snapshot domain.CorridorSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.CorridorSnapshot{}, errors.Wrap(err, "decode corridor snapshot")
	}
	return snapshot, nil
}
