package heatmap

// Hex returns the fill colour of the bucket: red for empty through emerald for deepest.
func (b Bucket) Hex() string {
	switch b {
	case BucketDeepest:
		return "#059669"
	case BucketDeep:
		return "#10B981"
	case BucketMediumDeep:
		return "#4ADE80"
	case BucketMedium:
		return "#FACC15"
	case BucketThin:
		return "#FB923C"
	case BucketThinnest:
		return "#F97316"
	default:
		return "#EF4444"
	}
}

// Alpha returns the opacity of the tier in range 0-1.
func (o Opacity) Alpha() float64 {
	switch o {
	case OpacityFull:
		return 1.0
	case OpacityHigh:
		return 0.9
	default:
		return 0.8
	}
}
