package monitor

import (
	"strings"
	"time"
)

// HostMetrics aggregates connections to one remote (host, port).
// Groups that never resolved past a bare IP have no high-water entry
// and report MaxConcurrent 0.
type HostMetrics struct {
	Host               string
	Port               uint16
	CurrentConnections int
	TotalConnections   int
	MaxConcurrent      int
}

// ProcessMetrics aggregates connections owned by one pid.
type ProcessMetrics struct {
	Pid                int32
	Name               string
	CurrentConnections int
	TotalConnections   int
	MaxConcurrent      int
	IsAlive            bool
}

// ProcessHostMetrics aggregates the (pid, host, port) pair.
type ProcessHostMetrics struct {
	Pid                int32
	ProcessName        string
	Host               string
	Port               uint16
	CurrentConnections int
	TotalConnections   int
	MaxConcurrent      int
	IsAlive            bool
}

// HistoryPoint is the number of connections active at one retained
// poll timestamp.
type HistoryPoint struct {
	Time        time.Time
	ActiveCount int
}

// Summary is the overall connection picture for one filter.
type Summary struct {
	Active int
	Total  int
	Max    int
}

// ActiveConnections returns copies of the non-closed connections that
// match filter.
func (m *Monitor) ActiveConnections(filter ConnectionFilter) []Connection {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Connection
	for _, conn := range m.conns {
		if filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			out = append(out, *conn)
		}
	}
	return out
}

// GetSummary counts matching active and lifetime connections, with the
// peak concurrency seen across the retained history window.
func (m *Monitor) GetSummary(filter ConnectionFilter) Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Summary
	m.allConnsLocked(func(conn *Connection) {
		if !filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			return
		}
		s.Total++
		if !conn.Closed {
			s.Active++
		}
	})

	for _, p := range m.historyLocked(filter, time.Time{}, time.Time{}) {
		if p.ActiveCount > s.Max {
			s.Max = p.ActiveCount
		}
	}
	return s
}

// HostMetrics groups all matching connections, live and historical, by
// remote (host-or-address, port).
func (m *Monitor) HostMetrics(filter ConnectionFilter) []HostMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	type hostPort struct {
		host string
		port uint16
	}
	groups := make(map[hostPort]*HostMetrics)

	m.allConnsLocked(func(conn *Connection) {
		if !filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			return
		}
		key := hostPort{conn.HostLabel(), conn.RemotePort}
		g, ok := groups[key]
		if !ok {
			g = &HostMetrics{Host: key.host, Port: key.port}
			groups[key] = g
		}
		g.TotalConnections++
		if !conn.Closed {
			g.CurrentConnections++
		}
	})

	out := make([]HostMetrics, 0, len(groups))
	for key, g := range groups {
		g.MaxConcurrent = m.byHost.max[hostKey(key.host, key.port)]
		out = append(out, *g)
	}
	return out
}

// ProcessMetrics groups all matching connections by owning pid.
func (m *Monitor) ProcessMetrics(filter ConnectionFilter) []ProcessMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := make(map[int32]*ProcessMetrics)
	m.allConnsLocked(func(conn *Connection) {
		if !filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			return
		}
		g, ok := groups[conn.Pid]
		if !ok {
			g = &ProcessMetrics{Pid: conn.Pid}
			groups[conn.Pid] = g
		}
		g.TotalConnections++
		if !conn.Closed {
			g.CurrentConnections++
		}
	})

	out := make([]ProcessMetrics, 0, len(groups))
	for pid, g := range groups {
		g.Name = m.processNameLocked(pid)
		if g.Name == "" {
			g.Name = "Unknown"
		}
		g.MaxConcurrent = m.byPid.max[pid]
		g.IsAlive = m.isAliveLocked(pid)
		out = append(out, *g)
	}
	return out
}

// ProcessHostMetrics groups all matching connections by (pid,
// host-or-address, port). The display name prefers the executable path
// over the short name.
func (m *Monitor) ProcessHostMetrics(filter ConnectionFilter) []ProcessHostMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := make(map[processHostKey]*ProcessHostMetrics)
	m.allConnsLocked(func(conn *Connection) {
		if !filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			return
		}
		key := processHostKey{conn.Pid, conn.HostLabel(), conn.RemotePort}
		g, ok := groups[key]
		if !ok {
			g = &ProcessHostMetrics{Pid: key.Pid, Host: key.Host, Port: key.Port}
			groups[key] = g
		}
		g.TotalConnections++
		if !conn.Closed {
			g.CurrentConnections++
		}
	})

	out := make([]ProcessHostMetrics, 0, len(groups))
	for key, g := range groups {
		g.ProcessName = "Unknown"
		if p, ok := m.processes[key.Pid]; ok {
			switch {
			case p.ExePath != "":
				g.ProcessName = p.ExePath
			case p.Name != "":
				g.ProcessName = p.Name
			}
		}
		g.MaxConcurrent = m.byProcessHost.max[key]
		g.IsAlive = m.isAliveLocked(key.Pid)
		out = append(out, *g)
	}
	return out
}

// History reports, for every retained poll timestamp within [start,
// end], how many matching connections were active at that instant. A
// zero start or end leaves that bound open. Points come back in
// timestamp order.
func (m *Monitor) History(filter ConnectionFilter, start, end time.Time) []HistoryPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyLocked(filter, start, end)
}

func (m *Monitor) historyLocked(filter ConnectionFilter, start, end time.Time) []HistoryPoint {
	var matched []*Connection
	m.allConnsLocked(func(conn *Connection) {
		if filter.Matches(conn, m.processNameLocked(conn.Pid)) {
			matched = append(matched, conn)
		}
	})

	var out []HistoryPoint
	for _, ts := range m.sampleTimes {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}

		count := 0
		for _, conn := range matched {
			// Active at ts: already seen by then and either still open
			// or not yet gone by then.
			if !conn.FirstSeen.After(ts) && (!ts.After(conn.LastSeen) || !conn.Closed) {
				count++
			}
		}
		out = append(out, HistoryPoint{Time: ts, ActiveCount: count})
	}
	return out
}

// MemoryHistory returns the time-windowed memory series for the pids
// the filter implies: the exact pid when set, otherwise every tracked
// process whose name contains the name substring, otherwise all
// tracked pids. Pids whose windowed series is empty are omitted.
func (m *Monitor) MemoryHistory(filter ConnectionFilter, start, end time.Time) map[int32][]MemorySample {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pids []int32
	switch {
	case filter.HasPid:
		pids = []int32{filter.Pid}
	case filter.ProcessName != "":
		for pid, p := range m.processes {
			if p.Name != "" && strings.Contains(p.Name, filter.ProcessName) {
				pids = append(pids, pid)
			}
		}
	default:
		for pid := range m.memoryHistory {
			pids = append(pids, pid)
		}
	}

	out := make(map[int32][]MemorySample)
	for _, pid := range pids {
		var windowed []MemorySample
		for _, s := range m.memoryHistory[pid] {
			if !start.IsZero() && s.Time.Before(start) {
				continue
			}
			if !end.IsZero() && s.Time.After(end) {
				continue
			}
			windowed = append(windowed, s)
		}
		if len(windowed) > 0 {
			out[pid] = windowed
		}
	}
	return out
}
