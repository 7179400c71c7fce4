package monitor

import (
	"time"

	"github.com/google/uuid"
)

// ConnKey is the natural identity of a socket flow across polls. The
// kernel exposes no stable connection id, so successive snapshots are
// matched on this 4-tuple. Two unrelated flows can only collide if one
// closes and another opens on the identical tuple within a single
// tick, an accepted limit of the sampling model.
type ConnKey struct {
	Pid        int32
	LocalPort  uint16
	RemoteAddr string
	RemotePort uint16
}

// Connection is one observed socket flow. Once Closed is set the
// record is immutable and lives in the monitor's historical list.
type Connection struct {
	ID             uuid.UUID `json:"id"`
	Pid            int32     `json:"pid"`
	LocalPort      uint16    `json:"local_port"`
	RemotePort     uint16    `json:"remote_port"`
	RemoteAddr     string    `json:"remote_addr"`
	RemoteHostname string    `json:"remote_hostname,omitempty"`
	State          string    `json:"state"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
	Closed         bool      `json:"closed"`
}

func newConnection(key ConnKey, hostname, state string, now time.Time) *Connection {
	return &Connection{
		ID:             uuid.New(),
		Pid:            key.Pid,
		LocalPort:      key.LocalPort,
		RemotePort:     key.RemotePort,
		RemoteAddr:     key.RemoteAddr,
		RemoteHostname: hostname,
		State:          state,
		FirstSeen:      now,
		LastSeen:       now,
	}
}

func (c *Connection) key() ConnKey {
	return ConnKey{
		Pid:        c.Pid,
		LocalPort:  c.LocalPort,
		RemoteAddr: c.RemoteAddr,
		RemotePort: c.RemotePort,
	}
}

func (c *Connection) updateState(state string, now time.Time) {
	c.State = state
	c.LastSeen = now
}

func (c *Connection) markClosed(now time.Time) {
	c.Closed = true
	c.LastSeen = now
}

// HostLabel is the display identity of the remote end: the resolved
// hostname when one exists, otherwise the literal address.
func (c *Connection) HostLabel() string {
	if c.RemoteHostname != "" {
		return c.RemoteHostname
	}
	return c.RemoteAddr
}
