package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/corridormap/internal/domain"
)

func corridor(src, dst string, liquidity float64) domain.CorridorRecord {
	return domain.CorridorRecord{
		SourceAsset:       src,
		DestinationAsset:  dst,
		CorridorKey:       src + ":" + dst,
		LiquidityDepthUSD: liquidity,
		VolumeUSD:         liquidity / 10,
		SuccessRate:       99,
	}
}

func TestBuild(t *testing.T) {
	records := []domain.CorridorRecord{
		corridor("USDC", "XLM", 2_500_000),
		corridor("EURC", "XLM", 400_000),
		corridor("USDC", "EURC", 1_200),
		corridor("BRL", "USDC", 0),
	}

	m := Build(records)

	assert.Equal(t, []string{"BRL", "EURC", "USDC"}, m.Sources)
	assert.Equal(t, []string{"EURC", "USDC", "XLM"}, m.Destinations)
	assert.Equal(t, 2_500_000.0, m.MaxLiquidity)
	assert.Equal(t, 4, m.Len())

	c, ok := m.Cell("EURC", "XLM")
	require.True(t, ok)
	assert.Equal(t, "EURC", c.Source)
	assert.Equal(t, "XLM", c.Destination)
	assert.Equal(t, 400_000.0, c.Liquidity)
	assert.Equal(t, "EURC:XLM", c.Corridor.CorridorKey)
	assert.Equal(t, "EURC-XLM", c.Key())

	_, ok = m.Cell("XLM", "EURC")
	assert.False(t, ok, "direction matters")
}

func TestBuild_MaxLiquidityIsTrueMaximum(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "single", values: []float64{42}, expected: 42},
		{name: "max first", values: []float64{900, 10, 500}, expected: 900},
		{name: "max last", values: []float64{10, 500, 900}, expected: 900},
		{name: "all zero", values: []float64{0, 0}, expected: 0},
		{name: "fractional", values: []float64{0.25, 0.5, 0.125}, expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]domain.CorridorRecord, 0, len(tt.values))
			for i, v := range tt.values {
				records = append(records, corridor("SRC", string(rune('A'+i)), v))
			}
			assert.Equal(t, tt.expected, Build(records).MaxLiquidity)
		})
	}
}

func TestBuild_DuplicatePairLastWins(t *testing.T) {
	first := corridor("USDC", "XLM", 100)
	first.CorridorKey = "first"
	second := corridor("USDC", "XLM", 50)
	second.CorridorKey = "second"

	m := Build([]domain.CorridorRecord{first, second})

	require.Equal(t, 1, m.Len())
	c, ok := m.Cell("USDC", "XLM")
	require.True(t, ok)
	assert.Equal(t, "second", c.Corridor.CorridorKey)
	assert.Equal(t, 50.0, c.Liquidity)
	// the overwritten record still counts towards the maximum
	assert.Equal(t, 100.0, m.MaxLiquidity)
	assert.Equal(t, []string{"USDC"}, m.Sources)
	assert.Equal(t, []string{"XLM"}, m.Destinations)
}

func TestBuild_Empty(t *testing.T) {
	for _, records := range [][]domain.CorridorRecord{nil, {}} {
		m := Build(records)
		assert.Empty(t, m.Sources)
		assert.Empty(t, m.Destinations)
		assert.Zero(t, m.Len())
		assert.Zero(t, m.MaxLiquidity)
		assert.Empty(t, m.Rows())

		assert.NotPanics(t, func() {
			assert.Equal(t, BucketEmpty, ColorBucket(100, m.MaxLiquidity))
			assert.Equal(t, OpacityMedium, OpacityTier(100, m.MaxLiquidity))
			assert.Zero(t, m.Ratio(100))
		})
	}
}

func TestBuild_IncompleteRecordHasNoCell(t *testing.T) {
	m := Build([]domain.CorridorRecord{
		corridor("USDC", "XLM", 10),
		corridor("", "XLM", 900),
		corridor("EURC", "", 5),
	})

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"USDC"}, m.Sources)
	assert.Equal(t, []string{"XLM"}, m.Destinations)
	assert.Equal(t, 900.0, m.MaxLiquidity)
	_, ok := m.Cell("", "XLM")
	assert.False(t, ok)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	records := []domain.CorridorRecord{
		corridor("XLM", "USDC", 3),
		corridor("AQUA", "USDC", 1),
	}
	snapshot := append([]domain.CorridorRecord(nil), records...)

	Build(records)

	assert.Equal(t, snapshot, records)
}

func TestMatrix_Rows(t *testing.T) {
	m := Build([]domain.CorridorRecord{
		corridor("A", "X", 1),
		corridor("B", "Y", 2),
	})

	rows := m.Rows()
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)

	// row X: A populated, B empty
	require.NotNil(t, rows[0][0])
	assert.Equal(t, "A", rows[0][0].Source)
	assert.Nil(t, rows[0][1])

	// row Y: A empty, B populated
	assert.Nil(t, rows[1][0])
	require.NotNil(t, rows[1][1])
	assert.Equal(t, 2.0, rows[1][1].Liquidity)
}
