package domain

import (
	"time"

	"github.com/google/uuid"
)

// CorridorSnapshot set of corridor records fetched for a period at a point in time.
type CorridorSnapshot struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"ts"`
	Period    Period           `json:"period"`
	Corridors []CorridorRecord `json:"corridors"`
}

// NewCorridorSnapshot creates a new CorridorSnapshot with a fresh id.
func NewCorridorSnapshot(timestamp time.Time, period Period, corridors []CorridorRecord) CorridorSnapshot {
	return CorridorSnapshot{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		Period:    period,
		Corridors: corridors,
	}
}

// Find returns the corridor with the given key.
func (s CorridorSnapshot) Find(corridorKey string) (CorridorRecord, bool) {
	for _, c := range s.Corridors {
		if c.CorridorKey == corridorKey {
			return c, true
		}
	}
	return CorridorRecord{}, false
}

// CorridorSnapshotRecord bundles a snapshot with the log index it originated from.
type CorridorSnapshotRecord struct {
	Index    uint64
	Snapshot CorridorSnapshot
}
