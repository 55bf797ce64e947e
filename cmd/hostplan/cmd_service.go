package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/audit"
	"github.com/hostplan/hostplan/pkg/cli"
	"github.com/hostplan/hostplan/pkg/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage host services",
	Long: `Manage the host's network-related systemd units.

Without a unit argument, status covers the managed set
(systemd-networkd, sshd, ntp by default; override with
'hostplan settings set units').

Examples:
  hostplan service status
  hostplan service status sshd
  hostplan service restart systemd-networkd -x
  hostplan service wait 192.168.0.205 22`,
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status [unit]",
	Short: "Show unit activity states",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := ""
		if len(args) > 0 {
			unit = args[0]
		}

		states, err := ops.ServiceStatus(unit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(states)
		}

		t := cli.NewTable("UNIT", "STATE")
		for _, st := range states {
			t.Row(st.Unit, formatUnitState(st.State))
		}
		t.Flush()
		return nil
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start <unit>",
	Short: "Start a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceJob("start", args[0], func(unit string) error {
			return ops.StartService(unit)
		})
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop <unit>",
	Short: "Stop a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceJob("stop", args[0], func(unit string) error {
			return ops.StopService(unit)
		})
	},
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart <unit>",
	Short: "Restart a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceJob("restart", args[0], func(unit string) error {
			return ops.RestartService(unit)
		})
	},
}

// serviceJob runs one start/stop/restart verb through the write flow.
func serviceJob(verb, unit string, run func(string) error) error {
	event := audit.NewEvent(currentUser(), "service."+verb).WithUnit(unit)
	pending := fmt.Sprintf("%s %s", verb, unit)
	return withHostWrite(event, pending, func() error {
		return run(unit)
	})
}

func formatUnitState(state string) string {
	switch state {
	case "active":
		return green(state)
	case "failed":
		return red(state)
	default:
		return state
	}
}

var serviceWaitTimeout time.Duration

var serviceWaitCmd = &cobra.Command{
	Use:   "wait <address> <port>",
	Short: "Wait for a TCP port to accept connections",
	Long: `Wait for a TCP port to accept connections, polling once a second.

Useful after a networking change to confirm the host is reachable
again before closing an out-of-band session.

Examples:
  hostplan service wait 192.168.0.205 22
  hostplan service wait 192.168.0.205 22 --timeout 2m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid port: %s", args[1])
		}

		ready, err := service.WaitReady(args[0], port, serviceWaitTimeout)
		if err != nil {
			return err
		}
		if !ready {
			return fmt.Errorf("%s:%d not reachable after %s", args[0], port, serviceWaitTimeout)
		}
		fmt.Println(green("ready"))
		return nil
	},
}

func init() {
	serviceWaitCmd.Flags().DurationVar(&serviceWaitTimeout, "timeout", 30*time.Second, "How long to keep polling")

	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
	serviceCmd.AddCommand(serviceRestartCmd)
	serviceCmd.AddCommand(serviceWaitCmd)
}
