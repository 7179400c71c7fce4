package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"tcpcount/internal/monitor"
	"tcpcount/internal/snaplog"
)

// Run owns the terminal until quit. One driving loop: a ticker starts
// at most one in-flight refresh at a time (reverse DNS on a fresh
// socket table can be slow, so refreshes run off the event loop), and
// every event or completion redraws.
func Run(app *AppState) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.EnableMouse()

	app.Screen = s
	if app.RefreshInt <= 0 {
		app.RefreshInt = 250 * time.Millisecond
	}
	if app.Graph == nil {
		app.Graph = NewConnGraph(app.Monitor, app.GraphPoints)
	}
	app.Graph.SetFilter(app.Filter)
	if app.FilterForm == nil {
		app.FilterForm = &FilterForm{}
	}

	// One synchronous refresh so the first frame has data.
	if err := app.Monitor.Refresh(); err != nil {
		app.LastError = err.Error()
	} else {
		app.LastUpdate = time.Now()
		app.logRefresh()
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- s.PollEvent()
		}
	}()

	refreshCh := make(chan error, 1)
	refreshInFlight := false
	startRefresh := func() {
		if refreshInFlight {
			return
		}
		refreshInFlight = true
		go func() {
			refreshCh <- app.Monitor.Refresh()
		}()
	}

	tick := time.NewTicker(app.RefreshInt)
	defer tick.Stop()

	for !app.Quit {
		DrawDashboard(app)
		if app.FilterForm.Active() {
			app.FilterForm.Draw(s)
		}
		s.Show()

		select {
		case ev := <-events:
			switch tev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventKey:
				app.handleKey(tev)
			case *tcell.EventMouse:
				app.handleMouse(tev)
			}

		case <-tick.C:
			startRefresh()
			app.Graph.Update()

		case err := <-refreshCh:
			refreshInFlight = false
			if err != nil {
				// Skipped tick: prior state stays on screen.
				app.LastError = err.Error()
				break
			}
			app.LastError = ""
			app.LastUpdate = time.Now()
			app.logRefresh()
		}
	}
	return nil
}

func (app *AppState) handleKey(ev *tcell.EventKey) {
	if app.FilterForm.Active() {
		if f, ok := app.FilterForm.HandleKey(ev); ok {
			app.ApplyFilter(f)
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		app.scrollUp(1)
		return
	case tcell.KeyDown:
		app.scrollDown(1)
		return
	case tcell.KeyPgUp:
		app.scrollUp(10)
		return
	case tcell.KeyPgDn:
		app.scrollDown(10)
		return
	case tcell.KeyHome:
		app.scrollToTop()
		return
	case tcell.KeyEnd:
		app.scrollToBottom()
		return
	}

	switch ev.Rune() {
	case 'q':
		app.Quit = true
	case 'r':
		app.Monitor.Reset()
		if app.Graph != nil {
			app.Graph.SetFilter(app.Filter)
		}
	case 'c':
		app.ApplyFilter(monitor.ConnectionFilter{})
	case 'f':
		app.FilterForm.Show(app.Filter)
	case 't':
		app.setSort(SortTotal)
	case 'a':
		app.setSort(SortActive)
	case 'm':
		app.setSort(SortMax)
	case '1':
		app.Focused = FocusProcessHost
	case '2':
		app.Focused = FocusHost
	case '3':
		app.Focused = FocusProcess
	}
}

func (app *AppState) handleMouse(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		app.scrollUp(3)
	case ev.Buttons()&tcell.WheelDown != 0:
		app.scrollDown(3)
	}
}

func (app *AppState) logRefresh() {
	if app.Log == nil {
		return
	}
	active := app.Monitor.ActiveConnections(app.Filter)
	sum := app.Monitor.GetSummary(app.Filter)
	_ = app.Log.Write(snaplog.Entry{
		CapturedAt:  time.Now().UTC(),
		Filter:      app.Filter.String(),
		ActiveCount: sum.Active,
		TotalCount:  sum.Total,
		Active:      active,
	})
}
