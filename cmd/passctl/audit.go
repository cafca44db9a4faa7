package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	auditLimit int
	auditSince time.Duration
)

func init() {
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum number of events to show")
	auditListCmd.Flags().DurationVar(&auditSince, "since", 0, "Show events newer than this duration (e.g. 24h)")
}

// auditCmd is the parent command for audit log operations.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
}

// auditListCmd lists recorded audit events.
var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit log events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditLog == nil {
			return fmt.Errorf("auditing is disabled; enable it in the config file")
		}

		var since time.Time
		if auditSince > 0 {
			since = time.Now().Add(-auditSince)
		}

		events, err := auditLog.ListEvents(auditLimit, since)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		for _, ev := range events {
			line := fmt.Sprintf("%s %s %s %s", ev.Timestamp.Format(time.RFC3339), ev.Source, ev.Operation, ev.Result)
			if ev.Path != "" {
				line += " path:" + ev.Path
			}
			if ev.Error != "" {
				line += " error:" + ev.Error
			}
			fmt.Println(line)
		}
		fmt.Printf("\nTotal: %d events\n", len(events))
		return nil
	},
}
