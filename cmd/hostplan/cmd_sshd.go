package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/audit"
)

var sshdCmd = &cobra.Command{
	Use:   "sshd",
	Short: "Manage the SSH daemon",
	Long: `Manage the SSH daemon's listening port.

Examples:
  hostplan sshd show
  hostplan sshd set-port 2222 -x`,
}

var sshdShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured sshd port",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := ops.SshdPort()
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]int{"port": port})
		}
		fmt.Printf("Port: %d\n", port)
		return nil
	},
}

var sshdSetPortCmd = &cobra.Command{
	Use:   "set-port <port>",
	Short: "Set the sshd listening port",
	Long: `Set the SSH daemon's listening port.

Rewrites the Port line in /etc/ssh/sshd_config and restarts sshd.
Make sure an out-of-band path to the host exists before moving the
port of the session you are on.

Examples:
  hostplan sshd set-port 2222
  hostplan sshd set-port 2222 -x`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid port: %s", args[0])
		}

		event := audit.NewEvent(currentUser(), "sshd.setport").WithUnit("sshd")
		pending := fmt.Sprintf("sshd listening port becomes %d (sshd restarts)", port)
		return withHostWrite(event, pending, func() error {
			return ops.SetSshdPort(port)
		})
	},
}

func init() {
	sshdCmd.AddCommand(sshdShowCmd)
	sshdCmd.AddCommand(sshdSetPortCmd)
}
