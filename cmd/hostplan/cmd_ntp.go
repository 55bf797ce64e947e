package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/audit"
)

var ntpCmd = &cobra.Command{
	Use:   "ntp",
	Short: "Manage NTP time synchronization",
	Long: `Manage the NTP daemon's server list and running state.

Examples:
  hostplan ntp show
  hostplan ntp set-servers 0.pool.ntp.org 1.pool.ntp.org -x
  hostplan ntp disable -x`,
}

var ntpShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show NTP servers and service state",
	RunE: func(cmd *cobra.Command, args []string) error {
		servers, err := ops.NtpServers()
		if err != nil {
			return err
		}
		active, activeErr := ops.NtpActive()

		if jsonOutput {
			out := map[string]interface{}{"servers": servers}
			if activeErr == nil {
				out["active"] = active
			}
			return json.NewEncoder(os.Stdout).Encode(out)
		}

		fmt.Printf("Service: %s\n", formatActive(active, activeErr))
		if len(servers) == 0 {
			fmt.Println("No servers configured")
			return nil
		}
		fmt.Println("Servers:")
		for _, server := range servers {
			fmt.Printf("  %s\n", server)
		}
		return nil
	},
}

var ntpStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the NTP service is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := ops.NtpActive()
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]bool{"active": active})
		}
		fmt.Println(formatActive(active, nil))
		return nil
	},
}

var ntpSetServersCmd = &cobra.Command{
	Use:   "set-servers <server>...",
	Short: "Set the NTP server list",
	Long: `Replace the NTP server list.

Rewrites the server lines in /etc/ntp.conf and restarts the NTP
service so the new servers take effect.

Examples:
  hostplan ntp set-servers 0.pool.ntp.org 1.pool.ntp.org
  hostplan ntp set-servers 0.pool.ntp.org -x`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := audit.NewEvent(currentUser(), "ntp.setservers").WithUnit("ntp")
		pending := fmt.Sprintf("ntp servers become %s (ntp restarts)", strings.Join(args, ", "))
		return withHostWrite(event, pending, func() error {
			return ops.SetNtpServers(args)
		})
	},
}

var ntpEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start NTP with the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		event := audit.NewEvent(currentUser(), "ntp.enable").WithUnit("ntp")
		return withHostWrite(event, "ntp service restarts with the current configuration", func() error {
			return ops.EnableNtp()
		})
	},
}

var ntpDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop the NTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		event := audit.NewEvent(currentUser(), "ntp.disable").WithUnit("ntp")
		return withHostWrite(event, "ntp service stops", func() error {
			return ops.DisableNtp()
		})
	},
}

func formatActive(active bool, err error) string {
	if err != nil {
		return "unknown"
	}
	if active {
		return green("active")
	}
	return red("inactive")
}

func init() {
	ntpCmd.AddCommand(ntpShowCmd)
	ntpCmd.AddCommand(ntpStatusCmd)
	ntpCmd.AddCommand(ntpSetServersCmd)
	ntpCmd.AddCommand(ntpEnableCmd)
	ntpCmd.AddCommand(ntpDisableCmd)
}
