package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testResolver() (*resolver, *int, *time.Time) {
	r := newResolver(time.Minute)
	calls := 0
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.lookup = func(addr string) ([]string, error) {
		calls++
		if addr == "93.184.216.34" {
			return []string{"example.com."}, nil
		}
		return nil, errors.New("NXDOMAIN")
	}
	r.now = func() time.Time { return now }
	return r, &calls, &now
}

func TestResolveTrimsTrailingDot(t *testing.T) {
	r, _, _ := testResolver()
	assert.Equal(t, "example.com", r.resolve("93.184.216.34"))
}

func TestResolveSuppressesLocalAddresses(t *testing.T) {
	r, calls, _ := testResolver()
	for _, addr := range []string{"127.0.0.1", "127.8.8.8", "::1", "169.254.10.20", "fe80::1"} {
		assert.Empty(t, r.resolve(addr), "addr %s", addr)
	}
	assert.Zero(t, *calls, "suppressed addresses must not hit DNS")
}

func TestResolveUnparseableAddress(t *testing.T) {
	r, calls, _ := testResolver()
	assert.Empty(t, r.resolve("not-an-ip"))
	assert.Zero(t, *calls)
}

func TestResolveFailureMeansNoHostname(t *testing.T) {
	r, _, _ := testResolver()
	assert.Empty(t, r.resolve("8.8.4.4"))
}

func TestResolveCaching(t *testing.T) {
	r, calls, now := testResolver()

	r.resolve("93.184.216.34")
	r.resolve("93.184.216.34")
	assert.Equal(t, 1, *calls)

	// Misses are cached too.
	r.resolve("8.8.4.4")
	r.resolve("8.8.4.4")
	assert.Equal(t, 2, *calls)

	*now = now.Add(2 * time.Minute)
	r.resolve("93.184.216.34")
	assert.Equal(t, 3, *calls, "expired entry must re-resolve")
}

func TestAlive(t *testing.T) {
	for _, status := range []string{"running", "sleep", "idle", ""} {
		assert.True(t, Alive(status), "status %q", status)
	}
	for _, status := range []string{"zombie", "stop", "dead"} {
		assert.False(t, Alive(status), "status %q", status)
	}
}
