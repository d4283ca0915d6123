package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	transports "github.com/rzbill/nidsmon/internal/cmd/client/transports"
	"github.com/rzbill/nidsmon/internal/event"
)

// NewMonitorCommand constructs the `monitor` command group and subcommands.
func NewMonitorCommand(baseURL BaseURLFunc) *cobra.Command {
	monitorCmd := &cobra.Command{Use: "monitor", Short: "Live monitor operations"}
	monitorCmd.PersistentFlags().String("transport", "grpc", "Transport: grpc|http")

	monitorCmd.AddCommand(
		newMonitorStartCommand(baseURL),
		newMonitorStopCommand(baseURL),
		newMonitorStatusCommand(baseURL),
		newMonitorEventsCommand(baseURL),
		newMonitorWatchCommand(baseURL),
	)
	return monitorCmd
}

func transportFor(cmd *cobra.Command, baseURL BaseURLFunc) (transports.MonitorTransport, error) {
	kind, _ := cmd.Flags().GetString("transport")
	return getTransport(kind, baseURL)
}

func newMonitorStartCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start generating events (no-op when already running)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := transportFor(cmd, baseURL)
			if err != nil {
				return err
			}
			st, err := t.Start(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", st)
			return nil
		},
	}
}

func newMonitorStopCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop generating events (no-op when already stopped)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := transportFor(cmd, baseURL)
			if err != nil {
				return err
			}
			st, err := t.Stop(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", st)
			return nil
		},
	}
}

func newMonitorStatusCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show generator state and log counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := transportFor(cmd, baseURL)
			if err != nil {
				return err
			}
			st, err := t.Status(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
}

func newMonitorEventsCommand(baseURL BaseURLFunc) *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Print the current event window, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			severity, _ := cmd.Flags().GetString("severity")
			limit, _ := cmd.Flags().GetInt("limit")
			output, _ := cmd.Flags().GetString("output")
			if severity != "" {
				if _, err := event.ParseSeverity(severity); err != nil {
					return err
				}
			}
			p, err := newEventPrinter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			t, err := transportFor(cmd, baseURL)
			if err != nil {
				return err
			}
			evs, err := t.Events(cmd.Context(), transports.EventsRequest{Filter: filter, Severity: severity, Limit: limit})
			if err != nil {
				return err
			}
			for _, ev := range evs {
				if err := p.print(ev); err != nil {
					return err
				}
			}
			return nil
		},
	}
	eventsCmd.Flags().String("filter", "", "CEL filter (server-side), e.g. 'severity == \"ALERT\" && host > 50'")
	eventsCmd.Flags().String("severity", "", "Only this severity: info|alert")
	eventsCmd.Flags().Int("limit", 0, "Newest N matches (0 = all)")
	eventsCmd.Flags().StringP("output", "o", "text", "Output: text|json")
	return eventsCmd
}

func newMonitorWatchCommand(baseURL BaseURLFunc) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream new events as they are generated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			from, _ := cmd.Flags().GetString("from")
			limit, _ := cmd.Flags().GetInt("limit")
			output, _ := cmd.Flags().GetString("output")
			if from != "latest" && from != "earliest" {
				return fmt.Errorf("invalid --from; use latest|earliest")
			}
			p, err := newEventPrinter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			t, err := transportFor(cmd, baseURL)
			if err != nil {
				return err
			}
			return t.Watch(cmd.Context(), transports.WatchRequest{Filter: filter, From: from, Limit: limit}, p.print)
		},
	}
	watchCmd.Flags().String("filter", "", "CEL filter (server-side)")
	watchCmd.Flags().String("from", "latest", "Start position: latest|earliest")
	watchCmd.Flags().Int("limit", 0, "Stop after N events (0 = infinite)")
	watchCmd.Flags().StringP("output", "o", "text", "Output: text|json")
	return watchCmd
}
