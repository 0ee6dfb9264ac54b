package clients

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/corridormap/internal/domain"
)

const corridorsYAML = `
- asset_a_code: USDC
  asset_b_code: XLM
  corridor_key: USDC-XLM
  liquidity_depth_usd: 2500000
  volume_usd: 120000
  success_rate: 98.5
  avg_settlement_latency_ms: 800
- asset_a_code: NGNC
  asset_b_code: USDC
  corridor_key: NGNC-USDC
  liquidity_depth_usd: 42000
  volume_usd: 1000
  success_rate: 87
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_YAML(t *testing.T) {
	src := NewFileSource(writeFile(t, "corridors.yaml", corridorsYAML))

	corridors, err := src.ListCorridors(context.Background(), domain.Period7d)
	require.NoError(t, err)
	require.Len(t, corridors, 2)
	assert.Equal(t, "NGNC", corridors[1].SourceAsset)
	assert.Equal(t, 42_000.0, corridors[1].LiquidityDepthUSD)
	require.NotNil(t, corridors[0].AvgSettlementLatencyMs)
	assert.Equal(t, 800.0, *corridors[0].AvgSettlementLatencyMs)
}

func TestFileSource_JSON(t *testing.T) {
	src := NewFileSource(writeFile(t, "corridors.json", corridorsJSON))

	corridors, err := src.ListCorridors(context.Background(), domain.Period24h)
	require.NoError(t, err)
	assert.Len(t, corridors, 2)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).ListCorridors(context.Background(), domain.Period7d)
	assert.Error(t, err)

	_, err = NewFileSource(writeFile(t, "broken.yml", "- [")).ListCorridors(context.Background(), domain.Period7d)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(writeFile(t, "ok.json", "[]")).ListCorridors(ctx, domain.Period7d)
	assert.ErrorIs(t, err, context.Canceled)
}
