package heatmap

import "math"

// Bucket discrete liquidity tier of a cell, ordered from empty to deepest.
type Bucket int

const (
	BucketEmpty Bucket = iota
	BucketThinnest
	BucketThin
	BucketMedium
	BucketMediumDeep
	BucketDeep
	BucketDeepest
)

// Buckets returns all buckets from empty to deepest.
func Buckets() []Bucket {
	return []Bucket{
		BucketEmpty,
		BucketThinnest,
		BucketThin,
		BucketMedium,
		BucketMediumDeep,
		BucketDeep,
		BucketDeepest,
	}
}

// String returns the bucket label.
func (b Bucket) String() string {
	switch b {
	case BucketDeepest:
		return "deepest"
	case BucketDeep:
		return "deep"
	case BucketMediumDeep:
		return "medium-deep"
	case BucketMedium:
		return "medium"
	case BucketThin:
		return "thin"
	case BucketThinnest:
		return "thinnest"
	default:
		return "empty"
	}
}

// Opacity intensity tier applied on top of the bucket colour.
type Opacity int

const (
	OpacityMedium Opacity = iota
	OpacityHigh
	OpacityFull
)

// String returns the tier label.
func (o Opacity) String() string {
	switch o {
	case OpacityFull:
		return "full"
	case OpacityHigh:
		return "high"
	default:
		return "medium"
	}
}

// Ratio returns liquidity/maxLiquidity, or 0 when maxLiquidity is 0.
func Ratio(liquidity, maxLiquidity float64) float64 {
	if maxLiquidity == 0 {
		return 0
	}
	r := liquidity / maxLiquidity
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ColorBucket maps liquidity relative to the maximum onto one of seven buckets.
// Thresholds are inclusive lower bounds.
func ColorBucket(liquidity, maxLiquidity float64) Bucket {
	ratio := Ratio(liquidity, maxLiquidity)
	switch {
	case ratio >= 0.8:
		return BucketDeepest
	case ratio >= 0.6:
		return BucketDeep
	case ratio >= 0.4:
		return BucketMediumDeep
	case ratio >= 0.2:
		return BucketMedium
	case ratio >= 0.1:
		return BucketThin
	case ratio > 0:
		return BucketThinnest
	default:
		return BucketEmpty
	}
}

// OpacityTier maps liquidity relative to the maximum onto an opacity tier.
func OpacityTier(liquidity, maxLiquidity float64) Opacity {
	ratio := Ratio(liquidity, maxLiquidity)
	switch {
	case ratio >= 0.5:
		return OpacityFull
	case ratio >= 0.2:
		return OpacityHigh
	default:
		return OpacityMedium
	}
}
