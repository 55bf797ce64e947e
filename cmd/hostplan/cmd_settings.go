package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/cli"
	"github.com/hostplan/hostplan/pkg/settings"
	"github.com/hostplan/hostplan/pkg/util"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.hostplan/settings.json.

Settings provide defaults for global flags:
  - netplan_dir:   Configuration directory (-D flag default)
  - helper_path:   Privileged helper binary (--helper flag default)
  - managed_units: Units covered by 'service status' without arguments

Examples:
  hostplan settings show
  hostplan settings set dir /etc/netplan
  hostplan settings set helper /usr/libexec/hostplan-helper
  hostplan settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			t.Row(name, value)
		}

		printSetting("netplan_dir", s.NetplanDir)
		printSetting("helper_path", s.HelperPath)
		printSetting("managed_units", strings.Join(s.ManagedUnits, ","))

		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  dir    - Netplan configuration directory (-D flag default)
  helper - Privileged helper binary path (--helper flag default)
  units  - Managed systemd units, comma separated

Examples:
  hostplan settings set dir /etc/netplan
  hostplan settings set helper /usr/libexec/hostplan-helper
  hostplan settings set units systemd-networkd,sshd,chrony`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]
		value := args[1]

		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch setting {
		case "dir", "netplan_dir":
			s.SetNetplanDir(value)
			fmt.Printf("Netplan directory set to: %s\n", value)
		case "helper", "helper_path":
			s.SetHelperPath(value)
			fmt.Printf("Helper path set to: %s\n", value)
		case "units", "managed_units":
			s.SetManagedUnits(util.SplitCommaSeparated(value))
			fmt.Printf("Managed units set to: %s\n", value)
		default:
			return fmt.Errorf("unknown setting: %s (valid: dir, helper, units)", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]

		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		var value string
		switch setting {
		case "dir", "netplan_dir":
			value = s.NetplanDir
		case "helper", "helper_path":
			value = s.HelperPath
		case "units", "managed_units":
			value = strings.Join(s.ManagedUnits, ",")
		default:
			return fmt.Errorf("unknown setting: %s (valid: dir, helper, units)", setting)
		}

		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
