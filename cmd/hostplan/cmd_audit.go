package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View audit logs of configuration changes.

All write commands are logged with:
  - Timestamp
  - User who made the change
  - Operation and target (interface or unit)
  - Dry-run vs executed
  - Success/failure status

Examples:
  hostplan audit list --interface eno3
  hostplan audit list --last 24h
  hostplan audit list --user alice --failures`,
}

var (
	auditUser      string
	auditOperation string
	auditInterface string
	auditUnit      string
	auditLast      string
	auditLimit     int
	auditFailures  bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			User:        auditUser,
			Operation:   auditOperation,
			Interface:   auditInterface,
			Unit:        auditUnit,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}

		// Parse --last duration
		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tUSER\tOPERATION\tTARGET\tSTATUS")
		fmt.Fprintln(w, "---------\t----\t---------\t------\t------")

		for _, event := range events {
			status := green("ok")
			if !event.Success {
				status = red("failed")
			}
			if event.DryRun {
				status = yellow("dry-run")
			}

			target := event.Interface
			if target == "" {
				target = event.Unit
			}
			if target == "" {
				target = "-"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Operation,
				target,
				status,
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditOperation, "operation", "", "Filter by operation")
	auditListCmd.Flags().StringVar(&auditInterface, "interface", "", "Filter by interface")
	auditListCmd.Flags().StringVar(&auditUnit, "unit", "", "Filter by unit")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")

	auditCmd.AddCommand(auditListCmd)
}
