package clients

import (
	"context"

	"github.com/vadiminshakov/corridormap/internal/domain"
)

// CorridorSource provides corridor analytics for a period.
type CorridorSource interface {
	ListCorridors(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error)
}
