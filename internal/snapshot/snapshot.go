package snapshot

import "github.com/shirou/gopsutil/v4/process"

// SocketInfo is one non-listening TCP socket row from the OS table.
type SocketInfo struct {
	Pid        int32  `json:"pid"`
	LocalPort  uint16 `json:"local_port"`
	RemoteAddr string `json:"remote_addr"`
	RemotePort uint16 `json:"remote_port"`
	State      string `json:"state"`
}

// ProcessInfo is process-table metadata for one pid. Fields the OS
// would not reveal (permissions, races with exit) are left empty.
type ProcessInfo struct {
	Name        string `json:"name"`
	ExePath     string `json:"exe_path"`
	MemoryBytes uint64 `json:"memory_bytes"`
	Status      string `json:"status"`
}

// Source is one point-in-time read of the OS socket and process
// tables, plus reverse-DNS resolution. The monitor takes it as an
// explicit dependency so it can be driven with synthetic snapshots.
type Source interface {
	// Connections returns the currently open, non-listening TCP
	// sockets (IPv4 and IPv6).
	Connections() ([]SocketInfo, error)

	// Processes returns metadata for every pid in the live process
	// table.
	Processes() (map[int32]ProcessInfo, error)

	// ResolveHostname reverse-resolves a remote address. Loopback and
	// link-local addresses resolve to "", as does any address with no
	// PTR record. Never an error.
	ResolveHostname(addr string) string
}

// Alive reports whether a process-table status still counts as
// running. Zombie, stopped and dead processes hold their pid but no
// longer own live sockets.
func Alive(status string) bool {
	switch status {
	case process.Zombie, process.Stop, "dead":
		return false
	}
	return true
}
