package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "zero", value: 0, expected: "$0"},
		{name: "below thousand", value: 999, expected: "$999"},
		{name: "rounds fraction", value: 12.4, expected: "$12"},
		{name: "half rounds away from zero", value: 2.5, expected: "$3"},
		{name: "exact thousand", value: 1_000, expected: "$1K"},
		{name: "thousands half up", value: 1_500, expected: "$2K"},
		{name: "thousands round down", value: 1_499, expected: "$1K"},
		{name: "hundreds of thousands", value: 450_000, expected: "$450K"},
		{name: "exact million", value: 1_000_000, expected: "$1.0M"},
		{name: "millions", value: 2_500_000, expected: "$2.5M"},
		{name: "millions half up", value: 1_250_000, expected: "$1.3M"},
		{name: "billions stay in millions", value: 3_000_000_000, expected: "$3000.0M"},
		{name: "nan", value: math.NaN(), expected: NotAvailable},
		{name: "inf", value: math.Inf(1), expected: NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.value))
		})
	}
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0", FormatUSD(0))
	assert.Equal(t, "$999", FormatUSD(999))
	assert.Equal(t, "$1,234,568", FormatUSD(1_234_567.6))
	assert.Equal(t, "$2,500,000", FormatUSD(2_500_000))
	assert.Equal(t, NotAvailable, FormatUSD(math.NaN()))
}

func TestFormatLatency(t *testing.T) {
	latency := 1234.4
	assert.Equal(t, "1234ms", FormatLatency(&latency))

	zero := 0.0
	assert.Equal(t, "0ms", FormatLatency(&zero))

	assert.Equal(t, NotAvailable, FormatLatency(nil))
}

func TestFormatSuccessRate(t *testing.T) {
	assert.Equal(t, "98.5%", FormatSuccessRate(98.5))
	assert.Equal(t, "100%", FormatSuccessRate(100))
	assert.Equal(t, NotAvailable, FormatSuccessRate(math.NaN()))
}
