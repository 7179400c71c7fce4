package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcpcount/internal/monitor"
	"tcpcount/internal/snapshot"
)

type fakeSource struct {
	sockets   []snapshot.SocketInfo
	procs     map[int32]snapshot.ProcessInfo
	hostnames map[string]string
}

func (f *fakeSource) Connections() ([]snapshot.SocketInfo, error) { return f.sockets, nil }

func (f *fakeSource) Processes() (map[int32]snapshot.ProcessInfo, error) {
	if f.procs == nil {
		return map[int32]snapshot.ProcessInfo{}, nil
	}
	return f.procs, nil
}

func (f *fakeSource) ResolveHostname(addr string) string { return f.hostnames[addr] }

func testSource() *fakeSource {
	return &fakeSource{
		sockets: []snapshot.SocketInfo{{
			Pid: 10, LocalPort: 5000, RemoteAddr: "93.184.216.34", RemotePort: 443, State: "ESTABLISHED",
		}},
		procs: map[int32]snapshot.ProcessInfo{
			10: {Name: "curl", Status: "running"},
		},
		hostnames: map[string]string{"93.184.216.34": "example.com"},
	}
}

func TestGraphSamplingEvictsOldest(t *testing.T) {
	m := monitor.New(testSource())
	require.NoError(t, m.Refresh())

	g := NewConnGraph(m, 5)
	g.sampleInterval = 0 // sample on every update

	for i := 0; i < 8; i++ {
		g.Update()
	}

	require.Len(t, g.data, 5)
	for _, v := range g.data {
		assert.Equal(t, 1, v)
	}
}

func TestGraphRebuildOnFilterChange(t *testing.T) {
	src := testSource()
	m := monitor.New(src)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Refresh())
	}

	g := NewConnGraph(m, 10)
	g.sampleInterval = 0
	g.Update()
	require.Len(t, g.data, 1)

	// Applying a filter refills the whole buffer from retained
	// history: three polls, all with one matching connection.
	g.SetFilter(monitor.ConnectionFilter{HasPid: true, Pid: 10})
	assert.Equal(t, []int{1, 1, 1}, g.data)

	g.SetFilter(monitor.ConnectionFilter{HasPid: true, Pid: 999})
	assert.Equal(t, []int{0, 0, 0}, g.data)
}

func TestGraphUpdateDetectsExternalFilterChange(t *testing.T) {
	m := monitor.New(testSource())
	require.NoError(t, m.Refresh())

	g := NewConnGraph(m, 10)
	g.sampleInterval = 0

	g.filter = monitor.ConnectionFilter{HasPid: true, Pid: 10}
	g.Update()

	// The mismatched hash triggers a rebuild instead of a sample.
	assert.Equal(t, filterHash(g.filter), g.lastHash)
	assert.Equal(t, []int{1}, g.data)
}

func TestGraphRebuildTrimsToCapacity(t *testing.T) {
	m := monitor.New(testSource())
	for i := 0; i < 6; i++ {
		require.NoError(t, m.Refresh())
	}

	g := NewConnGraph(m, 4)
	g.SetFilter(monitor.ConnectionFilter{})
	assert.Len(t, g.data, 4)
}

func TestNewConnGraphDefaultsCapacity(t *testing.T) {
	g := NewConnGraph(nil, 0)
	assert.Equal(t, defaultGraphPoints, g.maxPoints)
}

func TestRoundUpMagnitude(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{7, 7},
		{9, 9},
		{10, 10},
		{11, 20},
		{99, 100},
		{230, 300},
		{1000, 1000},
		{1001, 2000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundUpMagnitude(tt.in), "roundUpMagnitude(%d)", tt.in)
	}
}
