package ui

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/gdamore/tcell/v2"

	"tcpcount/internal/monitor"
)

const defaultGraphPoints = 300

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// ConnGraph feeds the live sparkline. It keeps its own short ring of
// active-connection counts, sampled once per second regardless of the
// monitor's refresh tick: the monitor retains enough history for broad
// filtering, this buffer only what the graph width can show.
type ConnGraph struct {
	mon            *monitor.Monitor
	filter         monitor.ConnectionFilter
	maxPoints      int
	data           []int
	sampleInterval time.Duration
	lastSample     time.Time
	lastHash       uint64

	now func() time.Time
}

func NewConnGraph(mon *monitor.Monitor, maxPoints int) *ConnGraph {
	if maxPoints <= 0 {
		maxPoints = defaultGraphPoints
	}
	g := &ConnGraph{
		mon:            mon,
		maxPoints:      maxPoints,
		sampleInterval: time.Second,
		now:            time.Now,
	}
	g.lastHash = filterHash(g.filter)
	return g
}

func filterHash(f monitor.ConnectionFilter) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%t|%d|%s|%s|%t|%d",
		f.HasPid, f.Pid, f.ProcessName, f.RemoteHost, f.HasPort, f.RemotePort)
	return h.Sum64()
}

// SetFilter replaces the filter and refills the buffer wholesale from
// the monitor's history so the graph does not mix filters.
func (g *ConnGraph) SetFilter(f monitor.ConnectionFilter) {
	g.filter = f
	g.lastHash = filterHash(f)
	g.rebuild()
}

func (g *ConnGraph) rebuild() {
	hist := g.mon.History(g.filter, time.Time{}, time.Time{})
	data := make([]int, 0, len(hist))
	for _, p := range hist {
		data = append(data, p.ActiveCount)
	}
	if len(data) > g.maxPoints {
		data = data[len(data)-g.maxPoints:]
	}
	g.data = data
}

// Update appends one sample when the sampling interval has elapsed,
// evicting the oldest point past capacity. A filter changed out from
// under us (hash mismatch) triggers a rebuild instead.
func (g *ConnGraph) Update() {
	if h := filterHash(g.filter); h != g.lastHash {
		g.lastHash = h
		g.rebuild()
		return
	}

	now := g.now()
	if now.Sub(g.lastSample) < g.sampleInterval {
		return
	}
	g.lastSample = now

	g.data = append(g.data, len(g.mon.ActiveConnections(g.filter)))
	if len(g.data) > g.maxPoints {
		g.data = g.data[1:]
	}
}

func (g *ConnGraph) Draw(s tcell.Screen, r rect) {
	if r.w < 8 || r.h < 3 {
		return
	}

	PutString(s, r.x, r.y, TruncateToWidth("Active Connections (1s interval)", r.w), styleTitle)

	plotX := r.x + 5
	plotY := r.y + 1
	plotW := r.w - 5
	plotH := r.h - 1

	maxValue := 0
	for _, v := range g.data {
		if v > maxValue {
			maxValue = v
		}
	}
	scale := roundUpMagnitude(maxValue)

	PutString(s, r.x, plotY, fmt.Sprintf("%4d", scale), styleDefault)
	PutString(s, r.x, plotY+plotH-1, fmt.Sprintf("%4d", 0), styleDefault)

	data := g.data
	if len(data) > plotW {
		data = data[len(data)-plotW:]
	}
	// Right-align so the freshest sample hugs the right edge.
	x0 := plotX + plotW - len(data)

	for i, v := range data {
		eighths := v * plotH * 8 / scale
		x := x0 + i
		for row := 0; row < plotH; row++ {
			y := plotY + plotH - 1 - row
			cellEighths := eighths - row*8
			switch {
			case cellEighths >= 8:
				s.SetContent(x, y, sparkBlocks[7], nil, styleFocus)
			case cellEighths > 0:
				s.SetContent(x, y, sparkBlocks[cellEighths-1], nil, styleFocus)
			}
		}
	}
}

// roundUpMagnitude rounds v up to its own order of magnitude so the
// y-axis label stays stable: 9 -> 9, 11 -> 20, 230 -> 300.
func roundUpMagnitude(v int) int {
	if v <= 0 {
		return 1
	}
	base := 1
	for v >= base*10 {
		base *= 10
	}
	return (v + base - 1) / base * base
}
