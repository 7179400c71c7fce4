package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConn() *Connection {
	return &Connection{
		Pid:            42,
		LocalPort:      5000,
		RemotePort:     443,
		RemoteAddr:     "93.184.216.34",
		RemoteHostname: "example.com",
		State:          "ESTABLISHED",
	}
}

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name        string
		filter      ConnectionFilter
		processName string
		want        bool
	}{
		{
			name:   "empty filter matches everything",
			filter: ConnectionFilter{},
			want:   true,
		},
		{
			name:   "pid match",
			filter: ConnectionFilter{HasPid: true, Pid: 42},
			want:   true,
		},
		{
			name:   "pid mismatch",
			filter: ConnectionFilter{HasPid: true, Pid: 43},
			want:   false,
		},
		{
			name:        "name substring match",
			filter:      ConnectionFilter{ProcessName: "url"},
			processName: "curl",
			want:        true,
		},
		{
			name:        "name is case sensitive",
			filter:      ConnectionFilter{ProcessName: "Curl"},
			processName: "curl",
			want:        false,
		},
		{
			name:   "name filter never matches a nameless process",
			filter: ConnectionFilter{ProcessName: "curl"},
			want:   false,
		},
		{
			name:   "host matches resolved hostname",
			filter: ConnectionFilter{RemoteHost: "example"},
			want:   true,
		},
		{
			name:   "host falls back to address text",
			filter: ConnectionFilter{RemoteHost: "93.184"},
			want:   true,
		},
		{
			name:   "host matches neither hostname nor address",
			filter: ConnectionFilter{RemoteHost: "github"},
			want:   false,
		},
		{
			name:   "port match",
			filter: ConnectionFilter{HasPort: true, RemotePort: 443},
			want:   true,
		},
		{
			name:   "port mismatch",
			filter: ConnectionFilter{HasPort: true, RemotePort: 80},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(testConn(), tt.processName))
		})
	}
}

func TestFilterHostFallbackOnNamelessRemote(t *testing.T) {
	conn := testConn()
	conn.RemoteHostname = ""

	assert.True(t, ConnectionFilter{RemoteHost: "216.34"}.Matches(conn, ""))
	assert.False(t, ConnectionFilter{RemoteHost: "example"}.Matches(conn, ""))
}

// Matching the full filter equals the conjunction of its parts.
func TestFilterConjunction(t *testing.T) {
	full := ConnectionFilter{
		HasPid:      true,
		Pid:         42,
		ProcessName: "cur",
		RemoteHost:  "example",
		HasPort:     true,
		RemotePort:  443,
	}
	parts := []ConnectionFilter{
		{HasPid: true, Pid: full.Pid},
		{ProcessName: full.ProcessName},
		{RemoteHost: full.RemoteHost},
		{HasPort: true, RemotePort: full.RemotePort},
	}

	cases := []struct {
		conn *Connection
		name string
	}{
		{testConn(), "curl"},
		{testConn(), ""},
		{&Connection{Pid: 42, RemoteAddr: "1.2.3.4", RemotePort: 443}, "curl"},
		{&Connection{Pid: 7, RemoteAddr: "93.184.216.34", RemoteHostname: "example.com", RemotePort: 443}, "curl"},
		{&Connection{Pid: 42, RemoteAddr: "93.184.216.34", RemoteHostname: "example.com", RemotePort: 80}, "curl"},
	}
	for _, c := range cases {
		want := true
		for _, p := range parts {
			want = want && p.Matches(c.conn, c.name)
		}
		assert.Equal(t, want, full.Matches(c.conn, c.name))
	}
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "No filters", ConnectionFilter{}.String())

	f := ConnectionFilter{
		HasPid:      true,
		Pid:         42,
		ProcessName: "curl",
		RemoteHost:  "example.com",
		HasPort:     true,
		RemotePort:  443,
	}
	assert.Equal(t, "PID: 42, Process: curl, Host: example.com, Port: 443", f.String())

	assert.Equal(t, "Port: 0", ConnectionFilter{HasPort: true}.String())
}

func TestFilterIsEmpty(t *testing.T) {
	assert.True(t, ConnectionFilter{}.IsEmpty())
	assert.False(t, ConnectionFilter{HasPid: true}.IsEmpty())
	assert.False(t, ConnectionFilter{ProcessName: "x"}.IsEmpty())
	assert.False(t, ConnectionFilter{RemoteHost: "x"}.IsEmpty())
	assert.False(t, ConnectionFilter{HasPort: true}.IsEmpty())
}
