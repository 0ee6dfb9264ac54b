package domain

import "fmt"

// CorridorRecord pre-computed analytics for a directed asset pair.
// Field names follow the analytics API.
type CorridorRecord struct {
	// SourceAsset code of the asset the payment starts from.
	SourceAsset string `json:"asset_a_code" yaml:"asset_a_code"`
	// DestinationAsset code of the asset the payment settles in.
	DestinationAsset string `json:"asset_b_code" yaml:"asset_b_code"`
	// CorridorKey unique identifier of the corridor.
	CorridorKey       string  `json:"corridor_key" yaml:"corridor_key"`
	LiquidityDepthUSD float64 `json:"liquidity_depth_usd" yaml:"liquidity_depth_usd"`
	VolumeUSD         float64 `json:"volume_usd" yaml:"volume_usd"`
	// SuccessRate percentage in range 0-100.
	SuccessRate float64 `json:"success_rate" yaml:"success_rate"`
	// AvgSettlementLatencyMs is nil when the API has no latency samples.
	AvgSettlementLatencyMs *float64 `json:"avg_settlement_latency_ms,omitempty" yaml:"avg_settlement_latency_ms,omitempty"`
}

// Complete reports whether both asset codes are present.
func (c CorridorRecord) Complete() bool {
	return c.SourceAsset != "" && c.DestinationAsset != ""
}

// String returns the string representation.
func (c CorridorRecord) String() string {
	return fmt.Sprintf("%s->%s", c.SourceAsset, c.DestinationAsset)
}
