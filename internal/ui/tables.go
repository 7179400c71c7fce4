package ui

import (
	"fmt"
	"sort"

	"tcpcount/internal/monitor"
)

// tableBodyRows is how many data rows fit in a table rect: title,
// header and separator take three lines.
func tableBodyRows(r rect) int {
	n := r.h - 3
	if n < 0 {
		return 0
	}
	return n
}

func sortHostMetrics(rows []monitor.HostMetrics, by SortBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		av, bv := pickSortValue(by, a.TotalConnections, a.CurrentConnections, a.MaxConcurrent),
			pickSortValue(by, b.TotalConnections, b.CurrentConnections, b.MaxConcurrent)
		if av != bv {
			return av > bv
		}
		if a.Host != b.Host {
			return a.Host < b.Host
		}
		return a.Port < b.Port
	})
}

func sortProcessMetrics(rows []monitor.ProcessMetrics, by SortBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		av, bv := pickSortValue(by, a.TotalConnections, a.CurrentConnections, a.MaxConcurrent),
			pickSortValue(by, b.TotalConnections, b.CurrentConnections, b.MaxConcurrent)
		if av != bv {
			return av > bv
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Pid < b.Pid
	})
}

func sortProcessHostMetrics(rows []monitor.ProcessHostMetrics, by SortBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		av, bv := pickSortValue(by, a.TotalConnections, a.CurrentConnections, a.MaxConcurrent),
			pickSortValue(by, b.TotalConnections, b.CurrentConnections, b.MaxConcurrent)
		if av != bv {
			return av > bv
		}
		if a.Host != b.Host {
			return a.Host < b.Host
		}
		if a.Pid != b.Pid {
			return a.Pid < b.Pid
		}
		return a.Port < b.Port
	})
}

func pickSortValue(by SortBy, total, active, max int) int {
	switch by {
	case SortActive:
		return active
	case SortMax:
		return max
	default:
		return total
	}
}

func drawTableFrame(app *AppState, r rect, title string, focused bool, header string) {
	s := app.Screen
	titleStyle := styleTitle
	if focused {
		title += " *"
	}
	PutString(s, r.x, r.y, TruncateToWidth(title, r.w), titleStyle)
	PutString(s, r.x, r.y+1, TruncateToWidth(header, r.w), styleHeader)
	dashes := make([]byte, MinInt(len(header), r.w))
	for i := range dashes {
		dashes[i] = '-'
	}
	PutString(s, r.x, r.y+2, string(dashes), styleDefault)
}

func window[T any](rows []T, offset, visible int) []T {
	if offset > len(rows) {
		offset = len(rows)
	}
	end := MinInt(offset+visible, len(rows))
	return rows[offset:end]
}

func drawProcessHostTable(app *AppState, r rect) {
	if r.w < 4 || r.h < 4 {
		return
	}
	rows := app.Monitor.ProcessHostMetrics(app.Filter)
	sortProcessHostMetrics(rows, app.SortBy)

	header := fmt.Sprintf("%-7s %-34s %-26s %-6s %-7s %-7s %-5s",
		"PID", "PROCESS", "HOST", "PORT", "ACTIVE", "TOTAL", "MAX")
	drawTableFrame(app, r, "Connections by Process and Host", app.Focused == FocusProcessHost, header)

	y := r.y + 3
	for _, row := range window(rows, app.scroll[FocusProcessHost], tableBodyRows(r)) {
		line := fmt.Sprintf("%-7d %-34s %-26s %-6d %-7d %-7d %-5d",
			row.Pid,
			TruncateToWidth(row.ProcessName, 34),
			TruncateToWidth(row.Host, 26),
			row.Port,
			row.CurrentConnections,
			row.TotalConnections,
			row.MaxConcurrent,
		)
		PutString(app.Screen, r.x, y, TruncateToWidth(line, r.w), styleDefault)
		y++
	}
}

func drawHostTable(app *AppState, r rect) {
	if r.w < 4 || r.h < 4 {
		return
	}
	rows := app.Monitor.HostMetrics(app.Filter)
	sortHostMetrics(rows, app.SortBy)

	header := fmt.Sprintf("%-30s %-6s %-7s %-7s %-5s",
		"REMOTE HOST", "PORT", "ACTIVE", "TOTAL", "MAX")
	drawTableFrame(app, r, "Connections by Host", app.Focused == FocusHost, header)

	y := r.y + 3
	for _, row := range window(rows, app.scroll[FocusHost], tableBodyRows(r)) {
		line := fmt.Sprintf("%-30s %-6d %-7d %-7d %-5d",
			TruncateToWidth(row.Host, 30),
			row.Port,
			row.CurrentConnections,
			row.TotalConnections,
			row.MaxConcurrent,
		)
		PutString(app.Screen, r.x, y, TruncateToWidth(line, r.w), styleDefault)
		y++
	}
}

func drawProcessTable(app *AppState, r rect) {
	if r.w < 4 || r.h < 4 {
		return
	}
	rows := app.Monitor.ProcessMetrics(app.Filter)
	sortProcessMetrics(rows, app.SortBy)

	header := fmt.Sprintf("%-7s %-22s %-7s %-7s %-5s %-5s",
		"PID", "NAME", "ACTIVE", "TOTAL", "MAX", "ALIVE")
	drawTableFrame(app, r, "Connections by Process", app.Focused == FocusProcess, header)

	y := r.y + 3
	for _, row := range window(rows, app.scroll[FocusProcess], tableBodyRows(r)) {
		alive := "no"
		if row.IsAlive {
			alive = "yes"
		}
		line := fmt.Sprintf("%-7d %-22s %-7d %-7d %-5d %-5s",
			row.Pid,
			TruncateToWidth(row.Name, 22),
			row.CurrentConnections,
			row.TotalConnections,
			row.MaxConcurrent,
			alive,
		)
		PutString(app.Screen, r.x, y, TruncateToWidth(line, r.w), styleDefault)
		y++
	}
}
