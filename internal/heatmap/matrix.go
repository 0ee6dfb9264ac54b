// Package heatmap turns corridor records into a source × destination liquidity grid
// and maps liquidity values onto colour buckets and display strings.
package heatmap

import (
	"sort"

	"github.com/vadiminshakov/corridormap/internal/domain"
)

// Cell single populated grid position.
type Cell struct {
	Source      string
	Destination string
	Liquidity   float64
	Corridor    domain.CorridorRecord
}

// Key returns the lookup key of the cell.
func (c Cell) Key() string {
	return CellKey(c.Source, c.Destination)
}

// Matrix liquidity grid derived from a list of corridor records.
// Columns are source assets, rows are destination assets.
type Matrix struct {
	cells        map[string]Cell
	Sources      []string
	Destinations []string
	MaxLiquidity float64
}

// CellKey builds the "{source}-{destination}" lookup key.
func CellKey(source, destination string) string {
	return source + "-" + destination
}

// Build derives the matrix, the sorted axes and the max liquidity from records.
// A later record with an already seen pair overwrites the earlier one.
// Records without both asset codes only contribute to MaxLiquidity.
func Build(records []domain.CorridorRecord) Matrix {
	cells := make(map[string]Cell, len(records))
	sources := make(map[string]struct{})
	destinations := make(map[string]struct{})

	var maxLiquidity float64
	for _, r := range records {
		if r.LiquidityDepthUSD > maxLiquidity {
			maxLiquidity = r.LiquidityDepthUSD
		}
		if !r.Complete() {
			continue
		}

		sources[r.SourceAsset] = struct{}{}
		destinations[r.DestinationAsset] = struct{}{}
		cells[CellKey(r.SourceAsset, r.DestinationAsset)] = Cell{
			Source:      r.SourceAsset,
			Destination: r.DestinationAsset,
			Liquidity:   r.LiquidityDepthUSD,
			Corridor:    r,
		}
	}

	return Matrix{
		cells:        cells,
		Sources:      sortedKeys(sources),
		Destinations: sortedKeys(destinations),
		MaxLiquidity: maxLiquidity,
	}
}

// Cell returns the populated cell for the pair, if any.
func (m Matrix) Cell(source, destination string) (Cell, bool) {
	c, ok := m.cells[CellKey(source, destination)]
	return c, ok
}

// Len returns the number of populated cells.
func (m Matrix) Len() int {
	return len(m.cells)
}

// Ratio returns liquidity relative to the matrix maximum.
func (m Matrix) Ratio(liquidity float64) float64 {
	return Ratio(liquidity, m.MaxLiquidity)
}

// Rows returns the grid in render order: one row per destination, one column per source.
// Empty positions are nil.
func (m Matrix) Rows() [][]*Cell {
	rows := make([][]*Cell, 0, len(m.Destinations))
	for _, dst := range m.Destinations {
		row := make([]*Cell, 0, len(m.Sources))
		for _, src := range m.Sources {
			if c, ok := m.cells[CellKey(src, dst)]; ok {
				row = append(row, &c)
				continue
			}
			row = append(row, nil)
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
