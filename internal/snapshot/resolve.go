package snapshot

import (
	"net"
	"strings"
	"sync"
	"time"
)

const resolveTTL = 5 * time.Minute

type resolveEntry struct {
	hostname  string
	fetchedAt time.Time
}

// resolver caches reverse lookups. The socket table repeats the same
// remote addresses every tick and a PTR lookup can take seconds, so
// results (including misses) are held for resolveTTL.
type resolver struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]resolveEntry

	lookup func(addr string) ([]string, error)
	now    func() time.Time
}

func newResolver(ttl time.Duration) *resolver {
	return &resolver{
		ttl:     ttl,
		entries: make(map[string]resolveEntry),
		lookup:  net.LookupAddr,
		now:     time.Now,
	}
}

// resolve returns the remote hostname for addr, or "" when there is
// none. Loopback and link-local addresses are suppressed outright:
// they resolve to "", never an error.
func (r *resolver) resolve(addr string) string {
	ip := net.ParseIP(addr)
	if ip == nil {
		return ""
	}
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return ""
	}

	now := r.now()

	r.mu.Lock()
	if e, ok := r.entries[addr]; ok && now.Sub(e.fetchedAt) <= r.ttl {
		r.mu.Unlock()
		return e.hostname
	}
	r.mu.Unlock()

	var hostname string
	if names, err := r.lookup(addr); err == nil && len(names) > 0 {
		hostname = strings.TrimSuffix(names[0], ".")
	}

	r.mu.Lock()
	r.entries[addr] = resolveEntry{hostname: hostname, fetchedAt: now}
	r.mu.Unlock()

	return hostname
}
