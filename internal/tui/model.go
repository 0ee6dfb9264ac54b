// Package tui renders the corridor heatmap in a terminal and drives the
// widget state from keyboard input: cursor moves are hovers, enter is a click.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/heatmap"
	"github.com/vadiminshakov/corridormap/internal/widget"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// FetchFunc loads the corridors for a period.
type FetchFunc func(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error)

type recordsMsg struct {
	period  domain.Period
	records []domain.CorridorRecord
}

type fetchErrMsg struct {
	period domain.Period
	err    error
}

// Model bubbletea model owning a single heatmap widget.
type Model struct {
	widget    *widget.Widget
	fetch     FetchFunc
	logger    *zap.Logger
	publicURL string

	row, col      int
	loading       bool
	pendingPeriod *domain.Period
	lastPath      string
	err           error
}

// NewModel creates a terminal heatmap showing period on start.
// publicURL prefixes navigation targets in the status line.
func NewModel(fetch FetchFunc, period domain.Period, publicURL string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		fetch:     fetch,
		logger:    logger,
		publicURL: strings.TrimRight(publicURL, "/"),
		loading:   true,
	}
	m.widget = widget.New(logger, widget.NavigatorFunc(m.navigate),
		widget.WithPeriod(period),
		widget.WithPeriodChange(m.periodChanged),
	)
	return m
}

// Widget exposes the underlying widget state.
func (m *Model) Widget() *widget.Widget {
	return m.widget
}

// LastNavigation returns the last navigation target, empty if none.
func (m *Model) LastNavigation() string {
	return m.lastPath
}

// Init starts loading the initially selected period.
func (m *Model) Init() tea.Cmd {
	return m.fetchCmd(m.widget.Period())
}

// Update handles key presses and fetch results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case recordsMsg:
		if msg.period != m.widget.Period() {
			// response for a period the user already switched away from
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.widget.SetRecords(msg.records)
		m.clampCursor()
		return m, nil
	case fetchErrMsg:
		if msg.period != m.widget.Period() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.logger.Error("failed to load corridors", zap.String("period", msg.period.String()), zap.Error(msg.err))
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "ctrl+c", "q":
		m.widget.Close()
		return tea.Quit
	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case "enter", " ":
		if src, dst, ok := m.cursorPair(); ok {
			m.widget.Click(src, dst)
		}
	case "esc":
		m.widget.HoverLeave()
	case "tab":
		m.selectPeriod(m.widget.Period().Next())
	case "1", "2", "3":
		periods := domain.Periods()
		m.selectPeriod(periods[int(key[0]-'1')])
	case "r":
		m.loading = true
		return m.fetchCmd(m.widget.Period())
	}

	if m.pendingPeriod != nil {
		period := *m.pendingPeriod
		m.pendingPeriod = nil
		m.loading = true
		return m.fetchCmd(period)
	}
	return nil
}

func (m *Model) selectPeriod(p domain.Period) {
	if err := m.widget.SelectPeriod(p); err != nil {
		m.err = err
	}
}

// periodChanged is the widget callback; the fetch is issued once the key is handled.
func (m *Model) periodChanged(p domain.Period) {
	m.pendingPeriod = &p
}

func (m *Model) navigate(path string) {
	m.lastPath = path
	m.logger.Info("corridor selected", zap.String("target", m.publicURL+path))
}

func (m *Model) fetchCmd(period domain.Period) tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		records, err := fetch(ctx, period)
		if err != nil {
			return fetchErrMsg{period: period, err: err}
		}
		return recordsMsg{period: period, records: records}
	}
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.row += dRow
	m.col += dCol
	m.clampCursor()

	src, dst, ok := m.cursorPair()
	if !ok {
		m.widget.HoverLeave()
		return
	}
	m.widget.HoverEnter(src, dst, m.cellBounds(m.row, m.col))
}

func (m *Model) clampCursor() {
	matrix := m.widget.Matrix()
	m.row = clamp(m.row, 0, len(matrix.Destinations)-1)
	m.col = clamp(m.col, 0, len(matrix.Sources)-1)
}

func (m *Model) cursorPair() (source, destination string, ok bool) {
	matrix := m.widget.Matrix()
	if len(matrix.Sources) == 0 || len(matrix.Destinations) == 0 {
		return "", "", false
	}
	return matrix.Sources[m.col], matrix.Destinations[m.row], true
}

// cellBounds returns the character-grid bounds of a cell as drawn by View.
func (m *Model) cellBounds(row, col int) widget.Rect {
	return widget.Rect{
		Left:   float64(m.labelWidth() + col*cellWidth),
		Top:    float64(lipgloss.Height(m.header()) + 1 + row*cellHeight),
		Width:  cellWidth,
		Height: cellHeight,
	}
}

func (m *Model) labelWidth() int {
	width := 0
	for _, dst := range m.widget.Matrix().Destinations {
		if w := lipgloss.Width(dst); w > width {
			width = w
		}
	}
	return width + 2
}

// View renders header, grid, tooltip and status line.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.grid())

	if tip, ok := m.widget.Tooltip(); ok {
		b.WriteString("\n")
		b.WriteString(renderTooltip(tip))
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←↑↓→ move · enter open · esc hide · 1/2/3 or tab period · r reload · q quit"))
	return b.String()
}

func (m *Model) header() string {
	periods := make([]string, 0, len(domain.Periods()))
	for _, p := range domain.Periods() {
		if p == m.widget.Period() {
			periods = append(periods, activePeriodStyle.Render(p.String()))
			continue
		}
		periods = append(periods, periodStyle.Render(p.String()))
	}

	swatches := make([]string, 0, len(heatmap.Buckets()))
	for _, bucket := range heatmap.Buckets() {
		swatches = append(swatches, swatch(bucket))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("LIQUIDITY DISTRIBUTION"),
		subtitleStyle.Render("Liquidity depth across payment corridors"),
		"",
		strings.Join(periods, " "),
		"",
		axisStyle.Render("LIQUIDITY DENSITY ")+"THIN "+strings.Join(swatches, "")+" DEEP",
	)
}

func (m *Model) grid() string {
	matrix := m.widget.Matrix()
	if matrix.Len() == 0 {
		if m.loading {
			return subtitleStyle.Render("loading corridors...")
		}
		return subtitleStyle.Render("no corridors for this period")
	}

	labelWidth := m.labelWidth()
	var b strings.Builder

	// x-axis: source assets
	b.WriteString(strings.Repeat(" ", labelWidth))
	for _, src := range matrix.Sources {
		b.WriteString(axisStyle.Width(cellWidth).Align(lipgloss.Center).Render(truncate(src, cellWidth)))
	}
	b.WriteString("\n")

	tip, hovered := m.widget.Tooltip()
	for r, row := range matrix.Rows() {
		b.WriteString(axisStyle.Width(labelWidth - 2).Align(lipgloss.Right).Render(matrix.Destinations[r]))
		b.WriteString("  ")
		for _, cell := range row {
			if cell == nil {
				b.WriteString(emptyCellStyle.Render("·"))
				continue
			}
			focused := hovered && tip.Cell.Key() == cell.Key()
			style := cellStyle(
				heatmap.ColorBucket(cell.Liquidity, matrix.MaxLiquidity),
				heatmap.OpacityTier(cell.Liquidity, matrix.MaxLiquidity),
				focused,
			)
			b.WriteString(style.Render(heatmap.FormatCurrency(cell.Liquidity)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTooltip(tip widget.Tooltip) string {
	c := tip.Cell.Corridor
	line := func(label, value string) string {
		return tooltipLabelStyle.Render(label) + value
	}

	box := tooltipStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s → %s", tip.Cell.Source, tip.Cell.Destination))+
			"  "+statusStyle.Render(heatmap.FormatSuccessRate(c.SuccessRate)),
		line("LIQUIDITY DEPTH", heatmap.FormatUSD(tip.Cell.Liquidity)),
		line("VOLUME", heatmap.FormatCurrency(c.VolumeUSD)),
		line("AVG LATENCY", heatmap.FormatLatency(c.AvgSettlementLatencyMs)),
		subtitleStyle.Render("enter to explore corridor"),
	))

	// centre the box on the anchor column
	offset := int(tip.Anchor.X) - lipgloss.Width(box)/2
	if offset < 0 {
		offset = 0
	}
	return lipgloss.NewStyle().MarginLeft(offset).Render(box)
}

func (m *Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("error: " + m.err.Error())
	case m.loading:
		return subtitleStyle.Render(fmt.Sprintf("loading %s...", m.widget.Period()))
	case m.lastPath != "":
		return statusStyle.Render("→ " + m.publicURL + m.lastPath)
	default:
		return subtitleStyle.Render(fmt.Sprintf("%d corridors", m.widget.Matrix().Len()))
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
