package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Period
		wantErr  bool
	}{
		{name: "24 hours", input: "24h", expected: Period24h},
		{name: "7 days", input: "7d", expected: Period7d},
		{name: "30 days", input: "30d", expected: Period30d},
		{name: "custom period", input: "90d", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "upper case", input: "7D", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPeriod_Next(t *testing.T) {
	assert.Equal(t, Period7d, Period24h.Next())
	assert.Equal(t, Period30d, Period7d.Next())
	assert.Equal(t, Period24h, Period30d.Next())
	assert.Equal(t, DefaultPeriod, Period("1y").Next())
}

func TestPeriod_Duration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Period24h.Duration())
	assert.Equal(t, 30*24*time.Hour, Period30d.Duration())
	assert.Zero(t, Period("").Duration())
}

func TestPeriods(t *testing.T) {
	periods := Periods()
	require.Len(t, periods, 3)
	for _, p := range periods {
		assert.True(t, p.IsValid())
	}
}
