package dashboard

import (
	"fmt"
	"html/template"
	"time"

	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/heatmap"
	"github.com/vadiminshakov/corridormap/internal/widget"
)

type cellView struct {
	Source        string       `json:"source"`
	Destination   string       `json:"destination"`
	CorridorKey   string       `json:"corridor_key"`
	Path          string       `json:"path"`
	Liquidity     float64      `json:"liquidity_depth_usd"`
	Bucket        string       `json:"bucket"`
	Opacity       string       `json:"opacity"`
	Color         string       `json:"color"`
	Alpha         float64      `json:"alpha"`
	Label         string       `json:"label"`
	LiquidityFull string       `json:"liquidity_display"`
	Volume        string       `json:"volume_display"`
	Latency       string       `json:"latency_display"`
	SuccessRate   string       `json:"success_rate_display"`
	Style         template.CSS `json:"-"`
}

type rowView struct {
	Destination string
	Cells       []*cellView
}

type periodLink struct {
	Period string
	Active bool
}

type heatmapView struct {
	Period        string         `json:"period"`
	Sources       []string       `json:"sources"`
	Destinations  []string       `json:"destinations"`
	MaxLiquidity  float64        `json:"max_liquidity"`
	Cells         []cellView     `json:"cells"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
	SnapshotIndex uint64         `json:"snapshot_index,omitempty"`
	Rows          []rowView      `json:"-"`
	Periods       []periodLink   `json:"-"`
	Legend        []template.CSS `json:"-"`
}

func newCellView(c heatmap.Cell, maxLiquidity float64) cellView {
	bucket := heatmap.ColorBucket(c.Liquidity, maxLiquidity)
	opacity := heatmap.OpacityTier(c.Liquidity, maxLiquidity)
	return cellView{
		Source:        c.Source,
		Destination:   c.Destination,
		CorridorKey:   c.Corridor.CorridorKey,
		Path:          widget.CorridorPath(c.Corridor.CorridorKey),
		Liquidity:     c.Liquidity,
		Bucket:        bucket.String(),
		Opacity:       opacity.String(),
		Color:         bucket.Hex(),
		Alpha:         opacity.Alpha(),
		Label:         heatmap.FormatCurrency(c.Liquidity),
		LiquidityFull: heatmap.FormatUSD(c.Liquidity),
		Volume:        heatmap.FormatCurrency(c.Corridor.VolumeUSD),
		Latency:       heatmap.FormatLatency(c.Corridor.AvgSettlementLatencyMs),
		SuccessRate:   heatmap.FormatSuccessRate(c.Corridor.SuccessRate),
		Style:         template.CSS(fmt.Sprintf("background:%s;opacity:%.1f", bucket.Hex(), opacity.Alpha())),
	}
}

// buildView derives everything the page and the JSON API show for one snapshot.
func buildView(period domain.Period, record *domain.CorridorSnapshotRecord) heatmapView {
	var corridors []domain.CorridorRecord
	if record != nil {
		corridors = record.Snapshot.Corridors
	}
	matrix := heatmap.Build(corridors)

	view := heatmapView{
		Period:       period.String(),
		Sources:      matrix.Sources,
		Destinations: matrix.Destinations,
		MaxLiquidity: matrix.MaxLiquidity,
		Cells:        make([]cellView, 0, matrix.Len()),
	}
	if record != nil {
		ts := record.Snapshot.Timestamp
		view.UpdatedAt = &ts
		view.SnapshotIndex = record.Index
	}

	for i, row := range matrix.Rows() {
		rv := rowView{Destination: matrix.Destinations[i], Cells: make([]*cellView, 0, len(row))}
		for _, c := range row {
			if c == nil {
				rv.Cells = append(rv.Cells, nil)
				continue
			}
			cv := newCellView(*c, matrix.MaxLiquidity)
			view.Cells = append(view.Cells, cv)
			rv.Cells = append(rv.Cells, &cv)
		}
		view.Rows = append(view.Rows, rv)
	}

	for _, p := range domain.Periods() {
		view.Periods = append(view.Periods, periodLink{Period: p.String(), Active: p == period})
	}
	for _, b := range heatmap.Buckets() {
		view.Legend = append(view.Legend, template.CSS("background:"+b.Hex()))
	}

	return view
}
