package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tcpcount/internal/monitor"
	"tcpcount/internal/snaplog"
	"tcpcount/internal/snapshot"
	"tcpcount/internal/ui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		pidStr      string
		processName string
		host        string
		portStr     string
		interval    time.Duration
		graphPoints int
		logPath     string
		logPretty   bool
		once        bool
	)

	cmd := &cobra.Command{
		Use:           "tcpcount",
		Short:         "Monitor and count TCP connections",
		Long:          "tcpcount samples the OS TCP socket and process tables, tracks connection lifecycles across polls, and shows per-host and per-process connection counts in a terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := buildFilter(cmd.ErrOrStderr(), pidStr, processName, host, portStr)

			logger, err := snaplog.New(logPath, logPretty)
			if err != nil {
				return fmt.Errorf("open snapshot log: %w", err)
			}
			defer logger.Close()

			mon := monitor.New(snapshot.NewSystemSource())

			if once {
				return runOnce(cmd, mon, filter)
			}

			app := &ui.AppState{
				Monitor:     mon,
				Log:         logger,
				Filter:      filter,
				RefreshInt:  interval,
				GraphPoints: graphPoints,
			}
			return ui.Run(app)
		},
	}

	cmd.Flags().StringVarP(&pidStr, "pid", "p", "", "Filter by process ID")
	cmd.Flags().StringVarP(&processName, "process-name", "n", "", "Filter by process name (case-sensitive substring match)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Filter by remote host (case-sensitive substring match)")
	cmd.Flags().StringVarP(&portStr, "port", "P", "", "Filter by remote port")
	cmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "Refresh interval (e.g. 250ms, 1s)")
	cmd.Flags().IntVar(&graphPoints, "graph-points", 300, "Number of points retained by the live graph")
	cmd.Flags().StringVar(&logPath, "log", "", "Append one JSON record per refresh to this file (- for stdout)")
	cmd.Flags().BoolVar(&logPretty, "log-pretty", false, "Indent the JSON snapshot log")
	cmd.Flags().BoolVar(&once, "once", false, "Run one refresh, print per-process counts and exit")

	return cmd
}

// buildFilter assembles the initial filter from flag values. Malformed
// numeric values are warned about and ignored, leaving that criterion
// unset.
func buildFilter(warnTo io.Writer, pidStr, processName, host, portStr string) monitor.ConnectionFilter {
	var filter monitor.ConnectionFilter

	if pidStr != "" {
		if pid, err := strconv.ParseInt(pidStr, 10, 32); err == nil && pid >= 0 {
			filter.HasPid = true
			filter.Pid = int32(pid)
		} else {
			fmt.Fprintf(warnTo, "Warning: Invalid PID %q, ignoring\n", pidStr)
		}
	}

	filter.ProcessName = processName
	filter.RemoteHost = host

	if portStr != "" {
		if port, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			filter.HasPort = true
			filter.RemotePort = uint16(port)
		} else {
			fmt.Fprintf(warnTo, "Warning: Invalid port %q, ignoring\n", portStr)
		}
	}

	return filter
}

// runOnce does a single refresh and prints a machine-friendly
// per-process summary.
func runOnce(cmd *cobra.Command, mon *monitor.Monitor, filter monitor.ConnectionFilter) error {
	if err := mon.Refresh(); err != nil {
		return err
	}

	rows := mon.ProcessMetrics(filter)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Pid < rows[j].Pid })

	for _, r := range rows {
		fmt.Fprintf(cmd.OutOrStdout(),
			"pid=%d name=%s active=%d total=%d max=%d alive=%v\n",
			r.Pid, r.Name, r.CurrentConnections, r.TotalConnections, r.MaxConcurrent, r.IsAlive)
	}
	return nil
}
