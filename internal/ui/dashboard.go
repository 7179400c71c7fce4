package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleValue   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleFilter  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFocus   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleKeyHint = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

type rect struct {
	x, y, w, h int
}

type layout struct {
	graph       rect
	summary     rect
	processHost rect
	host        rect
	process     rect
	status      rect
}

// layoutRects carves the screen: graph+summary strip on top, the
// process-host table, then host and process tables side by side, and
// a one-line status bar.
func layoutRects(w, h int) layout {
	const topH = 7
	bodyH := h - topH - 1
	if bodyH < 0 {
		bodyH = 0
	}
	phH := bodyH / 2
	btmH := bodyH - phH

	graphW := w * 3 / 4
	hostW := w / 2

	return layout{
		graph:       rect{0, 0, graphW, topH},
		summary:     rect{graphW, 0, w - graphW, topH},
		processHost: rect{0, topH, w, phH},
		host:        rect{0, topH + phH, hostW, btmH},
		process:     rect{hostW, topH + phH, w - hostW, btmH},
		status:      rect{0, h - 1, w, 1},
	}
}

func DrawDashboard(app *AppState) {
	s := app.Screen
	s.Clear()

	w, h := s.Size()
	l := layoutRects(w, h)

	app.Graph.Draw(s, l.graph)
	drawSummary(app, l.summary)
	drawProcessHostTable(app, l.processHost)
	drawHostTable(app, l.host)
	drawProcessTable(app, l.process)
	drawStatusBar(app, l.status)
}

func drawSummary(app *AppState, r rect) {
	if r.w < 2 || r.h < 4 {
		return
	}
	s := app.Screen
	sum := app.Monitor.GetSummary(app.Filter)

	PutString(s, r.x, r.y, TruncateToWidth("Overall connections", r.w), styleTitle)
	rows := []struct {
		label string
		value int
	}{
		{"Active: ", sum.Active},
		{"Total:  ", sum.Total},
		{"Max:    ", sum.Max},
	}
	for i, row := range rows {
		PutString(s, r.x, r.y+1+i, row.label, styleDefault)
		PutString(s, r.x+len(row.label), r.y+1+i,
			TruncateToWidth(fmt.Sprintf("%d", row.value), r.w-len(row.label)), styleValue)
	}
}

func drawStatusBar(app *AppState, r rect) {
	s := app.Screen
	x := r.x

	put := func(text string, style tcell.Style) {
		if x >= r.x+r.w {
			return
		}
		text = TruncateToWidth(text, r.x+r.w-x)
		PutString(s, x, r.y, text, style)
		x += len([]rune(text))
	}

	if app.LastError != "" {
		put("Error: "+app.LastError, styleError)
		put(" | ", styleDefault)
	}

	filterStr := "No filters active"
	if !app.Filter.IsEmpty() {
		filterStr = "Filter: " + app.Filter.String()
	}
	put(filterStr, styleFilter)
	put(" | ", styleDefault)
	put("Focus: "+app.Focused.String(), styleFocus)
	put(" | ", styleDefault)
	put("Sort: "+app.SortBy.String(), styleFocus)
	put(" | ", styleDefault)

	hints := []struct{ key, action string }{
		{"1-3", ": Table "},
		{"↑↓", ": Scroll "},
		{"f", ": Filter "},
		{"c", ": Clear "},
		{"r", ": Reset "},
		{"t/a/m", ": Sort "},
		{"q", ": Quit"},
	}
	for _, hint := range hints {
		put(hint.key, styleKeyHint)
		put(hint.action, styleDefault)
	}
}
