// Package domain defines core data structures used throughout the corridor heatmap.
package domain

import (
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownPeriod is returned for a period outside of the supported set.
var ErrUnknownPeriod = errors.New("unknown period")

// Period analytics window the corridor records were aggregated over.
type Period string

const (
	// Period24h last 24 hours.
	Period24h Period = "24h"
	// Period7d last 7 days.
	Period7d Period = "7d"
	// Period30d last 30 days.
	Period30d Period = "30d"
)

// DefaultPeriod is selected when nothing else was chosen.
const DefaultPeriod = Period7d

// Periods returns the selectable periods in display order.
func Periods() []Period {
	return []Period{Period24h, Period7d, Period30d}
}

// String returns the string representation.
func (p Period) String() string {
	return string(p)
}

// IsValid checks if the Period value is one of the supported ones.
func (p Period) IsValid() bool {
	return p == Period24h || p == Period7d || p == Period30d
}

// Duration returns the length of the window.
func (p Period) Duration() time.Duration {
	switch p {
	case Period24h:
		return 24 * time.Hour
	case Period7d:
		return 7 * 24 * time.Hour
	case Period30d:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Next returns the period following p in display order, wrapping around.
func (p Period) Next() Period {
	periods := Periods()
	for i, candidate := range periods {
		if candidate == p {
			return periods[(i+1)%len(periods)]
		}
	}
	return DefaultPeriod
}

// ParsePeriod converts a raw string into a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", errors.Wrapf(ErrUnknownPeriod, "%q, expected one of 24h, 7d, 30d", s)
	}
	return p, nil
}
