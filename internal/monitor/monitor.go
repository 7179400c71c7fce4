package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tcpcount/internal/snapshot"
)

// historyCap bounds the poll-timestamp series and each per-pid memory
// series. Oldest samples drop first.
const historyCap = 1000

type processHostKey struct {
	Pid  int32
	Host string
	Port uint16
}

func hostKey(host string, port uint16) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// counters tracks total-ever-opened, current-concurrent and the
// running maximum for one key space. The maximum is a live high-water
// mark covering all time, including connections later evicted from
// bounded history, so views read it here and never recompute it.
type counters[K comparable] struct {
	total   map[K]int
	current map[K]int
	max     map[K]int
}

func newCounters[K comparable]() counters[K] {
	return counters[K]{
		total:   make(map[K]int),
		current: make(map[K]int),
		max:     make(map[K]int),
	}
}

func (c counters[K]) open(k K) {
	c.total[k]++
	c.current[k]++
	if c.current[k] > c.max[k] {
		c.max[k] = c.current[k]
	}
}

// close floors at zero. An absent key can only follow a reset racing a
// tick and under-counting beats panicking.
func (c counters[K]) close(k K) {
	if c.current[k] > 0 {
		c.current[k]--
	}
}

// MemorySample is one resident-memory observation for a pid.
type MemorySample struct {
	Time  time.Time
	Bytes uint64
}

// Monitor is the authoritative registry of connections and processes.
// One mutex guards everything: Refresh mutates under it as a single
// indivisible step, each view accessor scans under it for the duration
// of the scan only. Single writer, any number of readers.
type Monitor struct {
	mu     sync.Mutex
	source snapshot.Source

	conns      map[uuid.UUID]*Connection // non-closed only
	byKey      map[ConnKey]uuid.UUID     // natural-key index over conns
	historical []*Connection             // closed, immutable, unbounded
	processes  map[int32]*Process
	procTable  map[int32]snapshot.ProcessInfo // last fetched OS process table

	byPid         counters[int32]
	byHost        counters[string]
	byProcessHost counters[processHostKey]

	memoryHistory map[int32][]MemorySample
	sampleTimes   []time.Time

	lastRefresh time.Time
	now         func() time.Time
}

func New(source snapshot.Source) *Monitor {
	m := &Monitor{
		source: source,
		now:    time.Now,
	}
	m.clearLocked()
	return m
}

// Refresh pulls one snapshot and reconciles it into the registry. On
// source failure the error is returned with all state untouched: the
// caller treats it as a skipped tick, never as fatal.
func (m *Monitor) Refresh() error {
	sockets, err := m.source.Connections()
	if err != nil {
		return fmt.Errorf("refresh tcp sockets: %w", err)
	}
	procTable, err := m.source.Processes()
	if err != nil {
		return fmt.Errorf("refresh process table: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.procTable = procTable

	seen := make(map[uuid.UUID]struct{}, len(sockets))
	for _, s := range sockets {
		key := ConnKey{
			Pid:        s.Pid,
			LocalPort:  s.LocalPort,
			RemoteAddr: s.RemoteAddr,
			RemotePort: s.RemotePort,
		}

		if id, ok := m.byKey[key]; ok {
			seen[id] = struct{}{}
			m.conns[id].updateState(s.State, now)
		} else {
			hostname := m.source.ResolveHostname(s.RemoteAddr)
			conn := newConnection(key, hostname, s.State, now)
			seen[conn.ID] = struct{}{}
			m.conns[conn.ID] = conn
			m.byKey[key] = conn.ID

			m.byPid.open(key.Pid)
			// Connections that resolved only to a bare IP stay out of
			// the host and process-host key spaces.
			if hostname != "" {
				m.byHost.open(hostKey(hostname, key.RemotePort))
				m.byProcessHost.open(processHostKey{key.Pid, hostname, key.RemotePort})
			}
		}

		m.observeProcess(key.Pid, now)
	}

	// Anything not seen this tick has gone away: close it and move it
	// to the historical list.
	for id, conn := range m.conns {
		if _, ok := seen[id]; ok {
			continue
		}
		conn.markClosed(now)
		m.byPid.close(conn.Pid)
		if conn.RemoteHostname != "" {
			m.byHost.close(hostKey(conn.RemoteHostname, conn.RemotePort))
			m.byProcessHost.close(processHostKey{conn.Pid, conn.RemoteHostname, conn.RemotePort})
		}
		delete(m.conns, id)
		delete(m.byKey, conn.key())
		m.historical = append(m.historical, conn)
	}

	m.sampleTimes = append(m.sampleTimes, now)
	if len(m.sampleTimes) > historyCap {
		m.sampleTimes = m.sampleTimes[1:]
	}

	m.lastRefresh = now
	return nil
}

func (m *Monitor) observeProcess(pid int32, now time.Time) {
	info, ok := m.procTable[pid]
	if !ok {
		return
	}

	if p, ok := m.processes[pid]; ok {
		p.update(info.Name, info.ExePath, info.MemoryBytes, now)
	} else {
		m.processes[pid] = newProcess(pid, info.Name, info.ExePath, info.MemoryBytes, now)
	}

	series := append(m.memoryHistory[pid], MemorySample{Time: now, Bytes: info.MemoryBytes})
	if len(series) > historyCap {
		series = series[1:]
	}
	m.memoryHistory[pid] = series
}

// Reset clears all connections, counters, histories and process
// records. The snapshot source is untouched.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Monitor) clearLocked() {
	m.conns = make(map[uuid.UUID]*Connection)
	m.byKey = make(map[ConnKey]uuid.UUID)
	m.historical = nil
	m.processes = make(map[int32]*Process)
	m.procTable = make(map[int32]snapshot.ProcessInfo)
	m.byPid = newCounters[int32]()
	m.byHost = newCounters[string]()
	m.byProcessHost = newCounters[processHostKey]()
	m.memoryHistory = make(map[int32][]MemorySample)
	m.sampleTimes = nil
	m.lastRefresh = m.now()
}

func (m *Monitor) LastRefresh() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRefresh
}

// processNameLocked is the resolved display name for pid, "" when
// unknown. Callers hold m.mu.
func (m *Monitor) processNameLocked(pid int32) string {
	if p, ok := m.processes[pid]; ok {
		return p.Name
	}
	return ""
}

// isAliveLocked reports whether pid is present in the last fetched OS
// process table with a non-terminal status. Callers hold m.mu.
func (m *Monitor) isAliveLocked(pid int32) bool {
	info, ok := m.procTable[pid]
	return ok && snapshot.Alive(info.Status)
}

// allConnsLocked yields live then historical connections. Callers hold
// m.mu and must not retain the pointers past the critical section.
func (m *Monitor) allConnsLocked(fn func(conn *Connection)) {
	for _, conn := range m.conns {
		fn(conn)
	}
	for _, conn := range m.historical {
		fn(conn)
	}
}
