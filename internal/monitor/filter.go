package monitor

import (
	"fmt"
	"strings"
)

// ConnectionFilter narrows every derived view. Present criteria are
// ANDed; the zero value matches everything. Substring matches are
// case-sensitive. It is a plain value: consumers hold their own copy.
//
// An empty ProcessName or RemoteHost means the criterion is unset; pid
// and port carry explicit presence flags since 0 is a legal value.
type ConnectionFilter struct {
	HasPid      bool
	Pid         int32
	ProcessName string
	RemoteHost  string
	HasPort     bool
	RemotePort  uint16
}

func (f ConnectionFilter) IsEmpty() bool {
	return !f.HasPid && f.ProcessName == "" && f.RemoteHost == "" && !f.HasPort
}

func (f ConnectionFilter) String() string {
	var parts []string
	if f.HasPid {
		parts = append(parts, fmt.Sprintf("PID: %d", f.Pid))
	}
	if f.ProcessName != "" {
		parts = append(parts, "Process: "+f.ProcessName)
	}
	if f.RemoteHost != "" {
		parts = append(parts, "Host: "+f.RemoteHost)
	}
	if f.HasPort {
		parts = append(parts, fmt.Sprintf("Port: %d", f.RemotePort))
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return strings.Join(parts, ", ")
}

// Matches reports whether conn passes every present criterion.
// processName is the resolved name for conn's pid, "" when unknown: a
// name criterion can never match a nameless process. The host
// criterion checks the resolved hostname first and falls back to the
// literal address text.
func (f ConnectionFilter) Matches(conn *Connection, processName string) bool {
	if f.HasPid && conn.Pid != f.Pid {
		return false
	}
	if f.ProcessName != "" {
		if processName == "" || !strings.Contains(processName, f.ProcessName) {
			return false
		}
	}
	if f.RemoteHost != "" {
		if !strings.Contains(conn.RemoteHostname, f.RemoteHost) &&
			!strings.Contains(conn.RemoteAddr, f.RemoteHost) {
			return false
		}
	}
	if f.HasPort && conn.RemotePort != f.RemotePort {
		return false
	}
	return true
}
