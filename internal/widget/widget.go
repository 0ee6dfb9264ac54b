// Package widget holds the interaction state of one heatmap instance:
// the derived matrix, the hover tooltip and the selected period.
// A Widget is owned by a single goroutine and is not safe for concurrent use.
package widget

import (
	"net/url"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/heatmap"
	"go.uber.org/zap"
)

const corridorPathPrefix = "/corridors/"

// Navigator moves the user to another location, e.g. a corridor detail page.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Rect on-screen bounds of a cell.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point on-screen position.
type Point struct {
	X float64
	Y float64
}

// Tooltip active hover payload.
type Tooltip struct {
	Cell heatmap.Cell
	// Anchor is the horizontal centre of the top edge of the hovered cell.
	Anchor Point
}

// Option configures a Widget.
type Option func(*Widget)

// WithPeriodChange registers a callback invoked after the selected period changes.
func WithPeriodChange(fn func(domain.Period)) Option {
	return func(w *Widget) {
		w.onPeriodChange = fn
	}
}

// WithPeriod sets the initially selected period.
func WithPeriod(p domain.Period) Option {
	return func(w *Widget) {
		if p.IsValid() {
			w.period = p
		}
	}
}

// Widget heatmap interaction state.
type Widget struct {
	logger         *zap.Logger
	navigator      Navigator
	onPeriodChange func(domain.Period)

	records []domain.CorridorRecord
	matrix  heatmap.Matrix
	tooltip *Tooltip
	period  domain.Period
}

// New creates a widget with no records, an inactive tooltip and the default period.
func New(logger *zap.Logger, navigator Navigator, opts ...Option) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Widget{
		logger:    logger,
		navigator: navigator,
		matrix:    heatmap.Build(nil),
		period:    domain.DefaultPeriod,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CorridorPath returns the detail page path for a corridor key.
func CorridorPath(corridorKey string) string {
	return corridorPathPrefix + url.PathEscape(corridorKey)
}

// ParseCorridorPath extracts the corridor key from a path built by CorridorPath.
func ParseCorridorPath(path string) (string, error) {
	if len(path) <= len(corridorPathPrefix) || path[:len(corridorPathPrefix)] != corridorPathPrefix {
		return "", errors.Errorf("not a corridor path: %q", path)
	}
	key, err := url.PathUnescape(path[len(corridorPathPrefix):])
	if err != nil {
		return "", errors.Wrap(err, "unescape corridor key")
	}
	return key, nil
}

// SetRecords replaces the input list. The matrix is rebuilt only when the list
// itself changed (different backing array or length); the slice is never modified.
func (w *Widget) SetRecords(records []domain.CorridorRecord) {
	if sameList(w.records, records) {
		return
	}

	w.records = records
	w.matrix = heatmap.Build(records)

	incomplete := 0
	for _, r := range records {
		if !r.Complete() {
			incomplete++
		}
	}
	if incomplete > 0 {
		w.logger.Warn("corridor records without asset codes are not rendered",
			zap.Int("count", incomplete))
	}

	// the hovered cell may be gone or carry stale data
	if w.tooltip != nil {
		if c, ok := w.matrix.Cell(w.tooltip.Cell.Source, w.tooltip.Cell.Destination); ok {
			w.tooltip.Cell = c
		} else {
			w.tooltip = nil
		}
	}
}

// Matrix returns the matrix derived from the current records.
func (w *Widget) Matrix() heatmap.Matrix {
	return w.matrix
}

// HoverEnter activates the tooltip for a populated cell. Entering an empty
// position behaves like HoverLeave.
func (w *Widget) HoverEnter(source, destination string, bounds Rect) {
	c, ok := w.matrix.Cell(source, destination)
	if !ok {
		w.HoverLeave()
		return
	}
	w.tooltip = &Tooltip{
		Cell: c,
		Anchor: Point{
			X: bounds.Left + bounds.Width/2,
			Y: bounds.Top,
		},
	}
}

// HoverLeave clears the tooltip.
func (w *Widget) HoverLeave() {
	w.tooltip = nil
}

// Tooltip returns the active tooltip, if any.
func (w *Widget) Tooltip() (Tooltip, bool) {
	if w.tooltip == nil {
		return Tooltip{}, false
	}
	return *w.tooltip, true
}

// Click navigates to the corridor behind a populated cell.
// It reports whether navigation happened; empty cells are ignored.
func (w *Widget) Click(source, destination string) bool {
	c, ok := w.matrix.Cell(source, destination)
	if !ok || w.navigator == nil {
		return false
	}
	path := CorridorPath(c.Corridor.CorridorKey)
	w.logger.Debug("navigate to corridor", zap.String("corridor", c.Corridor.CorridorKey), zap.String("path", path))
	w.navigator.Navigate(path)
	return true
}

// SelectPeriod changes the selected period and notifies the period callback.
// Fetching data for the new period is up to the callback owner.
func (w *Widget) SelectPeriod(p domain.Period) error {
	if !p.IsValid() {
		return errors.Wrapf(domain.ErrUnknownPeriod, "%q", p)
	}
	w.period = p
	if w.onPeriodChange != nil {
		w.onPeriodChange(p)
	}
	return nil
}

// Period returns the selected period.
func (w *Widget) Period() domain.Period {
	return w.period
}

// Close drops all state held by the widget.
func (w *Widget) Close() {
	w.tooltip = nil
	w.records = nil
	w.matrix = heatmap.Build(nil)
}

func sameList(a, b []domain.CorridorRecord) bool {
	if len(a) != len(b) {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return len(a) == 0 || &a[0] == &b[0]
}
