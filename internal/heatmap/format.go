package heatmap

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// NotAvailable is rendered in place of a missing or unrepresentable value.
const NotAvailable = "N/A"

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// FormatCurrency renders a compact dollar amount: $2.5M, $15K or $999.
// Rounding is half away from zero; the result is for display only.
func FormatCurrency(value float64) string {
	if !finite(value) {
		return NotAvailable
	}

	d := decimal.NewFromFloat(value)
	switch {
	case value >= 1_000_000:
		return "$" + d.Div(million).StringFixed(1) + "M"
	case value >= 1_000:
		return "$" + d.Div(thousand).StringFixed(0) + "K"
	default:
		return "$" + d.StringFixed(0)
	}
}

// FormatUSD renders a whole dollar amount with thousands separators: $1,234,568.
func FormatUSD(value float64) string {
	if !finite(value) {
		return NotAvailable
	}
	return "$" + humanize.Comma(decimal.NewFromFloat(value).Round(0).IntPart())
}

// FormatLatency renders a settlement latency in milliseconds.
func FormatLatency(ms *float64) string {
	if ms == nil || !finite(*ms) {
		return NotAvailable
	}
	return decimal.NewFromFloat(*ms).StringFixed(0) + "ms"
}

// FormatSuccessRate renders a 0-100 success rate.
func FormatSuccessRate(rate float64) string {
	if !finite(rate) {
		return NotAvailable
	}
	return fmt.Sprintf("%s%%", strconv.FormatFloat(rate, 'f', -1, 64))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
