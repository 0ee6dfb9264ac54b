package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorBucket(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		max       float64
		expected  Bucket
	}{
		{name: "max value", liquidity: 100, max: 100, expected: BucketDeepest},
		{name: "boundary 0.8", liquidity: 80, max: 100, expected: BucketDeepest},
		{name: "just below 0.8", liquidity: 79.99, max: 100, expected: BucketDeep},
		{name: "boundary 0.6", liquidity: 60, max: 100, expected: BucketDeep},
		{name: "boundary 0.4", liquidity: 40, max: 100, expected: BucketMediumDeep},
		{name: "boundary 0.2", liquidity: 20, max: 100, expected: BucketMedium},
		{name: "boundary 0.1", liquidity: 10, max: 100, expected: BucketThin},
		{name: "just below 0.1", liquidity: 9.99, max: 100, expected: BucketThinnest},
		{name: "tiny positive", liquidity: 0.0001, max: 100, expected: BucketThinnest},
		{name: "zero", liquidity: 0, max: 100, expected: BucketEmpty},
		{name: "zero max", liquidity: 50, max: 0, expected: BucketEmpty},
		{name: "negative", liquidity: -5, max: 100, expected: BucketEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorBucket(tt.liquidity, tt.max))
		})
	}
}

func TestColorBucket_Monotonic(t *testing.T) {
	prev := BucketEmpty
	for i := 0; i <= 1000; i++ {
		b := ColorBucket(float64(i), 1000)
		assert.GreaterOrEqual(t, int(b), int(prev), "liquidity %d", i)
		prev = b
	}
	assert.Equal(t, BucketDeepest, prev)
}

func TestBucket_String(t *testing.T) {
	labels := make([]string, 0, 7)
	for _, b := range Buckets() {
		labels = append(labels, b.String())
	}
	assert.Equal(t, []string{"empty", "thinnest", "thin", "medium", "medium-deep", "deep", "deepest"}, labels)
}

func TestOpacityTier(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		expected  Opacity
	}{
		{name: "full at 0.5", liquidity: 50, expected: OpacityFull},
		{name: "full at max", liquidity: 100, expected: OpacityFull},
		{name: "high below 0.5", liquidity: 49, expected: OpacityHigh},
		{name: "high at 0.2", liquidity: 20, expected: OpacityHigh},
		{name: "medium below 0.2", liquidity: 19, expected: OpacityMedium},
		{name: "medium at zero", liquidity: 0, expected: OpacityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OpacityTier(tt.liquidity, 100))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.5, Ratio(50, 100))
	assert.Zero(t, Ratio(50, 0))
	assert.Zero(t, Ratio(math.Inf(1), 100))
	assert.Zero(t, Ratio(math.NaN(), 100))
}

func TestPalette(t *testing.T) {
	seen := make(map[string]struct{})
	for _, b := range Buckets() {
		seen[b.Hex()] = struct{}{}
	}
	assert.Len(t, seen, 7, "every bucket has its own colour")
	assert.Equal(t, 1.0, OpacityFull.Alpha())
	assert.Greater(t, OpacityHigh.Alpha(), OpacityMedium.Alpha())
}
