package monitor

import "time"

// Process is one observed pid. Entries persist after the process
// exits; liveness comes from the process-table snapshot, not from this
// record.
type Process struct {
	Pid            int32
	Name           string // "" when the OS gave no name
	ExePath        string // "" when unresolvable
	MemoryBytes    uint64
	MaxMemoryBytes uint64 // running maximum, never decreases
	FirstSeen      time.Time
	LastSeen       time.Time
}

func newProcess(pid int32, name, exe string, memory uint64, now time.Time) *Process {
	return &Process{
		Pid:            pid,
		Name:           name,
		ExePath:        exe,
		MemoryBytes:    memory,
		MaxMemoryBytes: memory,
		FirstSeen:      now,
		LastSeen:       now,
	}
}

// update keeps the last known name and path when a later sample comes
// back empty.
func (p *Process) update(name, exe string, memory uint64, now time.Time) {
	if name != "" {
		p.Name = name
	}
	if exe != "" {
		p.ExePath = exe
	}
	p.MemoryBytes = memory
	if memory > p.MaxMemoryBytes {
		p.MaxMemoryBytes = memory
	}
	p.LastSeen = now
}
