package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCorridorRecord_Complete(t *testing.T) {
	assert.True(t, CorridorRecord{SourceAsset: "USDC", DestinationAsset: "XLM"}.Complete())
	assert.False(t, CorridorRecord{SourceAsset: "USDC"}.Complete())
	assert.False(t, CorridorRecord{DestinationAsset: "XLM"}.Complete())
}

func TestCorridorSnapshot_Find(t *testing.T) {
	snapshot := NewCorridorSnapshot(time.Now(), Period7d, []CorridorRecord{
		{SourceAsset: "USDC", DestinationAsset: "XLM", CorridorKey: "USDC:GA-XLM:native"},
		{SourceAsset: "EURC", DestinationAsset: "XLM", CorridorKey: "EURC:GB-XLM:native"},
	})

	assert.NotEmpty(t, snapshot.ID)

	c, ok := snapshot.Find("EURC:GB-XLM:native")
	assert.True(t, ok)
	assert.Equal(t, "EURC", c.SourceAsset)

	_, ok = snapshot.Find("missing")
	assert.False(t, ok)
}
