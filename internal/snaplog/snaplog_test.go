package snaplog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcpcount/internal/monitor"
)

func TestLoggerWritesJSONArray(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, false)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Write(Entry{
		CapturedAt:  ts,
		Filter:      "No filters",
		ActiveCount: 1,
		TotalCount:  2,
		Active:      []monitor.Connection{{Pid: 10, RemoteAddr: "1.2.3.4", RemotePort: 443}},
	}))
	require.NoError(t, l.Write(Entry{CapturedAt: ts.Add(time.Second), Filter: "PID: 10"}))
	require.NoError(t, l.Close())

	var entries []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ActiveCount)
	assert.Equal(t, int32(10), entries[0].Active[0].Pid)
	assert.Equal(t, "PID: 10", entries[1].Filter)
}

func TestLoggerPretty(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, true)
	require.NoError(t, l.Write(Entry{Filter: "No filters"}))
	require.NoError(t, l.Close())

	var entries []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
}

func TestNilLoggerIsNoOp(t *testing.T) {
	l, err := New("", false)
	require.NoError(t, err)
	require.Nil(t, l)

	assert.NoError(t, l.Write(Entry{}))
	assert.NoError(t, l.Close())
}

func TestLoggerCloseWithoutWrites(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, false)
	require.NoError(t, l.Close())
	assert.Empty(t, buf.String())
}
