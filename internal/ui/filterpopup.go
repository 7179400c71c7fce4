package ui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"tcpcount/internal/monitor"
)

const (
	fieldPid = iota
	fieldProcessName
	fieldRemoteHost
	fieldRemotePort
	fieldCount
)

var fieldLabels = [fieldCount]string{"PID", "Process Name", "Remote Host", "Remote Port"}

// FilterForm is the filter entry popup. While active it swallows all
// key input; Enter applies (or reports a parse error and keeps the
// previous filter active), Esc cancels.
type FilterForm struct {
	active bool
	fields [fieldCount]string
	focus  int
	errMsg string
}

func (f *FilterForm) Show(current monitor.ConnectionFilter) {
	f.active = true
	f.errMsg = ""
	f.focus = fieldPid

	f.fields = [fieldCount]string{}
	if current.HasPid {
		f.fields[fieldPid] = strconv.Itoa(int(current.Pid))
	}
	f.fields[fieldProcessName] = current.ProcessName
	f.fields[fieldRemoteHost] = current.RemoteHost
	if current.HasPort {
		f.fields[fieldRemotePort] = strconv.Itoa(int(current.RemotePort))
	}
}

func (f *FilterForm) Active() bool {
	return f.active
}

// HandleKey consumes one key event. The returned bool is true only
// when a valid filter was applied.
func (f *FilterForm) HandleKey(ev *tcell.EventKey) (monitor.ConnectionFilter, bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		f.active = false
		return monitor.ConnectionFilter{}, false

	case tcell.KeyEnter:
		filter, err := f.buildFilter()
		if err != nil {
			f.errMsg = err.Error()
			return monitor.ConnectionFilter{}, false
		}
		f.active = false
		return filter, true

	case tcell.KeyTab, tcell.KeyDown:
		f.focus = (f.focus + 1) % fieldCount
	case tcell.KeyBacktab, tcell.KeyUp:
		f.focus = (f.focus + fieldCount - 1) % fieldCount

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		cur := f.fields[f.focus]
		if len(cur) > 0 {
			r := []rune(cur)
			f.fields[f.focus] = string(r[:len(r)-1])
		}

	case tcell.KeyRune:
		f.fields[f.focus] += string(ev.Rune())
	}

	return monitor.ConnectionFilter{}, false
}

func (f *FilterForm) buildFilter() (monitor.ConnectionFilter, error) {
	var filter monitor.ConnectionFilter

	if s := f.fields[fieldPid]; s != "" {
		pid, err := strconv.ParseInt(s, 10, 32)
		if err != nil || pid < 0 {
			return filter, fmt.Errorf("invalid PID %q", s)
		}
		filter.HasPid = true
		filter.Pid = int32(pid)
	}

	filter.ProcessName = f.fields[fieldProcessName]
	filter.RemoteHost = f.fields[fieldRemoteHost]

	if s := f.fields[fieldRemotePort]; s != "" {
		port, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return filter, fmt.Errorf("invalid port %q", s)
		}
		filter.HasPort = true
		filter.RemotePort = uint16(port)
	}

	return filter, nil
}

func (f *FilterForm) Draw(s tcell.Screen) {
	w, h := s.Size()
	boxW := MinInt(48, w)
	boxH := fieldCount*2 + 5
	x := (w - boxW) / 2
	y := (h - boxH) / 2
	if x < 0 || y < 0 {
		return
	}

	for row := y; row < y+boxH; row++ {
		for col := x; col < x+boxW; col++ {
			s.SetContent(col, row, ' ', nil, styleDefault)
		}
	}

	PutString(s, x+1, y, TruncateToWidth("Set Filter", boxW-2), styleTitle)

	for i := 0; i < fieldCount; i++ {
		style := styleDefault
		marker := "  "
		if i == f.focus {
			style = styleFocus
			marker = "> "
		}
		PutString(s, x+1, y+1+i*2, marker+fieldLabels[i]+":", style)
		PutString(s, x+4, y+2+i*2, TruncateToWidth(f.fields[i]+"_", boxW-5), style)
	}

	if f.errMsg != "" {
		PutString(s, x+1, y+boxH-2, TruncateToWidth(f.errMsg, boxW-2), styleError)
	}
	PutString(s, x+1, y+boxH-1,
		TruncateToWidth("Enter: apply | Tab: next field | Esc: cancel", boxW-2), styleKeyHint)
}
