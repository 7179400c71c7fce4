package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"tcpcount/internal/monitor"
)

func TestBuildFilter(t *testing.T) {
	var warn bytes.Buffer

	f := buildFilter(&warn, "42", "curl", "example.com", "443")
	assert.Equal(t, monitor.ConnectionFilter{
		HasPid:      true,
		Pid:         42,
		ProcessName: "curl",
		RemoteHost:  "example.com",
		HasPort:     true,
		RemotePort:  443,
	}, f)
	assert.Empty(t, warn.String())
}

func TestBuildFilterIgnoresInvalidNumbers(t *testing.T) {
	tests := []struct {
		name    string
		pid     string
		port    string
		wantMsg string
	}{
		{"non-numeric pid", "abc", "", `Invalid PID "abc"`},
		{"negative pid", "-5", "", `Invalid PID "-5"`},
		{"non-numeric port", "", "https", `Invalid port "https"`},
		{"port out of range", "", "99999", `Invalid port "99999"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			f := buildFilter(&warn, tt.pid, "", "", tt.port)
			assert.True(t, f.IsEmpty(), "invalid value should leave the criterion unset")
			assert.Contains(t, warn.String(), tt.wantMsg)
		})
	}
}

func TestBuildFilterEmptyFlags(t *testing.T) {
	var warn bytes.Buffer
	f := buildFilter(&warn, "", "", "", "")
	assert.True(t, f.IsEmpty())
	assert.Empty(t, warn.String())
}

func TestRootCmdFlags(t *testing.T) {
	cmd := rootCmd()
	for _, name := range []string{"pid", "process-name", "host", "port", "interval", "graph-points", "log", "once"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}
