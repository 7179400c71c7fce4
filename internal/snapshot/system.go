package snapshot

import (
	"fmt"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemSource reads the live OS socket and process tables.
type SystemSource struct {
	resolver *resolver
}

func NewSystemSource() *SystemSource {
	return &SystemSource{resolver: newResolver(resolveTTL)}
}

func (s *SystemSource) Connections() ([]SocketInfo, error) {
	rows, err := gnet.Connections("tcp")
	if err != nil {
		return nil, fmt.Errorf("list tcp sockets: %w", err)
	}

	out := make([]SocketInfo, 0, len(rows))
	for _, r := range rows {
		if r.Status == "LISTEN" || r.Status == "NONE" {
			continue
		}
		out = append(out, SocketInfo{
			Pid:        r.Pid,
			LocalPort:  uint16(r.Laddr.Port),
			RemoteAddr: r.Raddr.IP,
			RemotePort: uint16(r.Raddr.Port),
			State:      r.Status,
		})
	}
	return out, nil
}

func (s *SystemSource) Processes() (map[int32]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	table := make(map[int32]ProcessInfo, len(procs))
	for _, p := range procs {
		var info ProcessInfo
		// Each field is best-effort: a process may exit mid-walk or
		// deny access, and a partial row is still worth keeping.
		if name, err := p.Name(); err == nil {
			info.Name = name
		}
		if exe, err := p.Exe(); err == nil {
			info.ExePath = exe
		}
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			info.MemoryBytes = mem.RSS
		}
		if st, err := p.Status(); err == nil && len(st) > 0 {
			info.Status = st[0]
		}
		table[p.Pid] = info
	}
	return table, nil
}

func (s *SystemSource) ResolveHostname(addr string) string {
	return s.resolver.resolve(addr)
}
