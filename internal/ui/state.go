package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"tcpcount/internal/monitor"
	"tcpcount/internal/snaplog"
)

type SortBy int

const (
	SortTotal SortBy = iota
	SortActive
	SortMax
)

func (s SortBy) String() string {
	switch s {
	case SortActive:
		return "Active"
	case SortMax:
		return "Max"
	default:
		return "Total"
	}
}

// Focus names the table receiving scroll input.
type Focus int

const (
	FocusProcessHost Focus = iota
	FocusHost
	FocusProcess
)

func (f Focus) String() string {
	switch f {
	case FocusHost:
		return "Host"
	case FocusProcess:
		return "Process"
	default:
		return "Process-Host"
	}
}

// AppState is everything the presentation layer owns: filter, sort
// key, focus, scroll offsets. The monitor owns all connection state.
type AppState struct {
	Screen  tcell.Screen
	Monitor *monitor.Monitor
	Log     *snaplog.Logger

	Filter  monitor.ConnectionFilter
	SortBy  SortBy
	Focused Focus

	RefreshInt  time.Duration
	GraphPoints int

	LastError  string
	LastUpdate time.Time
	Quit       bool

	Graph      *ConnGraph
	FilterForm *FilterForm

	scroll [3]int // per-Focus scroll offsets
}

// ApplyFilter replaces the active filter everywhere it is consumed.
func (app *AppState) ApplyFilter(f monitor.ConnectionFilter) {
	app.Filter = f
	app.scroll = [3]int{}
	if app.Graph != nil {
		app.Graph.SetFilter(f)
	}
}

func (app *AppState) setSort(s SortBy) {
	app.SortBy = s
	app.scroll = [3]int{}
}

// rowCount is how many rows the table under f currently has.
func (app *AppState) rowCount(f Focus) int {
	switch f {
	case FocusHost:
		return len(app.Monitor.HostMetrics(app.Filter))
	case FocusProcess:
		return len(app.Monitor.ProcessMetrics(app.Filter))
	default:
		return len(app.Monitor.ProcessHostMetrics(app.Filter))
	}
}

func (app *AppState) scrollUp(amount int) {
	off := app.scroll[app.Focused] - amount
	if off < 0 {
		off = 0
	}
	app.scroll[app.Focused] = off
}

func (app *AppState) scrollDown(amount int) {
	app.scroll[app.Focused] = clampScroll(
		app.scroll[app.Focused]+amount,
		app.rowCount(app.Focused),
		app.visibleRows(app.Focused),
	)
}

func (app *AppState) scrollToTop() {
	app.scroll[app.Focused] = 0
}

func (app *AppState) scrollToBottom() {
	app.scroll[app.Focused] = clampScroll(
		int(^uint(0)>>1),
		app.rowCount(app.Focused),
		app.visibleRows(app.Focused),
	)
}

func (app *AppState) visibleRows(f Focus) int {
	w, h := 80, 24
	if app.Screen != nil {
		w, h = app.Screen.Size()
	}
	l := layoutRects(w, h)
	switch f {
	case FocusHost:
		return tableBodyRows(l.host)
	case FocusProcess:
		return tableBodyRows(l.process)
	default:
		return tableBodyRows(l.processHost)
	}
}

func clampScroll(off, totalRows, visibleRows int) int {
	maxScroll := totalRows - visibleRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if off > maxScroll {
		off = maxScroll
	}
	if off < 0 {
		off = 0
	}
	return off
}

/* ---------- drawing helpers ---------- */

func PutString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}

func TruncateToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-3]) + "..."
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
