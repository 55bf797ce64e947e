// Hostplan - Declarative Host Network Configuration Tool
//
// A CLI tool for managing a host's network interfaces with:
//   - Netplan-style YAML documents under /etc/netplan
//   - One merged view across documents, validated before commit
//   - Dry-run by default (preview changes as a diff, require -x to execute)
//   - Audit logging of all changes
//   - Optional privileged helper for delegated execution
//
// CLI Pattern:
//
//	Noun commands select the subsystem; verbs operate on it:
//
//	hostplan <noun> <verb> [args] [-x]
//
// Nouns:
//
//	interface   Netplan interface configuration (list/show/get/set/init/delete)
//	sshd        SSH daemon listening port
//	ntp         NTP server list and service state
//	service     Managed systemd units
//	settings    Persistent CLI settings
//	audit       Audit log queries
//
// Examples:
//
//	hostplan interface list                          # Live host interfaces
//	hostplan interface show                          # All configured interfaces
//	hostplan interface show eno3                     # One interface
//	hostplan interface set eno3 --address 192.168.0.205/24 --gateway 192.168.0.1
//	hostplan interface set eno3 --address 192.168.0.205/24 --gateway 192.168.0.1 -x
//	hostplan interface init eno3 -x                  # Reset to an unmanaged entry
//	hostplan sshd set-port 2222 -x
//	hostplan ntp set-servers 0.pool.ntp.org 1.pool.ntp.org -x
//	hostplan service restart systemd-networkd -x
package main

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/audit"
	"github.com/hostplan/hostplan/pkg/cli"
	"github.com/hostplan/hostplan/pkg/helper"
	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/settings"
	"github.com/hostplan/hostplan/pkg/util"
	"github.com/hostplan/hostplan/pkg/version"
)

const auditLogPath = "/var/log/hostplan/audit.log"

var (
	// Global context flags
	interfaceName string // -i, --interface

	// Global option flags
	netplanDir  string
	helperPath  string
	executeMode bool
	verbose     bool
	jsonOutput  bool

	// Global state
	userSettings *settings.Settings
	ops          hostOps
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "hostplan",
	Short:             "Declarative Host Network Configuration Tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Hostplan manages a host's network configuration as netplan documents.

Noun commands select the subsystem; verbs operate on it.
Write commands preview changes by default — use -x to execute.

  hostplan <noun> <verb> [args] [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for certain commands
		if isSettingsOrHelp(cmd) {
			return nil
		}

		// Load user settings
		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		// Apply defaults from settings
		if netplanDir == "" {
			netplanDir = userSettings.GetNetplanDir()
		}
		if helperPath == "" {
			helperPath = userSettings.HelperPath
		}

		// Set log level: quiet by default, verbose on -v
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		// Route operations through the privileged helper when one is
		// configured, otherwise run them in-process
		if helperPath != "" {
			ops = helper.NewClient(helperPath)
		} else {
			ops = &localOps{dir: netplanDir, units: userSettings.ManagedUnits}
		}

		// Initialize audit logger
		auditLogger, err := audit.NewFileLogger(auditLogPath, audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
}

func init() {
	// Context flags (object selectors)
	rootCmd.PersistentFlags().StringVarP(&interfaceName, "interface", "i", "", "Interface name (object selector)")

	// Option flags (global)
	rootCmd.PersistentFlags().StringVarP(&netplanDir, "dir", "D", "", "Netplan configuration directory (default /etc/netplan)")
	rootCmd.PersistentFlags().StringVar(&helperPath, "helper", "", "Privileged helper binary to delegate operations to")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Write flags (-x) and output flags (--json) are local to commands that use them.
	// Use addWriteFlags(cmd) and addOutputFlags(cmd) to register them.

	// Add write flags to verb commands that mutate state
	for _, cmd := range []*cobra.Command{
		interfaceSetCmd, interfaceInitCmd, interfaceDeleteCmd,
		sshdSetPortCmd, ntpSetServersCmd, ntpEnableCmd, ntpDisableCmd,
		serviceStartCmd, serviceStopCmd, serviceRestartCmd,
	} {
		addWriteFlags(cmd)
	}

	// Add output flags to noun commands so their subcommands inherit --json
	for _, cmd := range []*cobra.Command{interfaceCmd, sshdCmd, ntpCmd, serviceCmd, auditCmd} {
		addOutputFlags(cmd)
	}

	// ============================================================================
	// Command Groups
	// ============================================================================

	rootCmd.AddGroup(
		&cobra.Group{ID: "host", Title: "Host Configuration:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	// Host Configuration
	for _, cmd := range []*cobra.Command{interfaceCmd, sshdCmd, ntpCmd, serviceCmd} {
		cmd.GroupID = "host"
		rootCmd.AddCommand(cmd)
	}

	// Configuration & Meta
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion("hostplan")
	},
}

func printVersion(tool string) {
	if version.Version == "dev" {
		fmt.Printf("%s dev build (use 'make build' for version info)\n", tool)
	} else {
		fmt.Printf("%s %s (%s)\n", tool, version.Version, version.GitCommit)
	}
}

// ============================================================================
// Context Helpers
// ============================================================================

// getInterface returns the interface from the -i flag (for commands that
// accept the interface as arg or flag)
func getInterface(args []string, offset int) (string, error) {
	if len(args) > offset {
		return args[offset], nil
	}
	if interfaceName != "" {
		return interfaceName, nil
	}
	return "", fmt.Errorf("interface required: use -i <interface> flag or provide as argument")
}

// currentUser names the invoking user for audit events.
func currentUser() string {
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	return username
}

// ============================================================================
// Write Helpers - dry-run by default, -x executes
// ============================================================================

// Helper to print dry-run notice
func printDryRunNotice() {
	if !executeMode {
		fmt.Println("\n" + yellow("DRY-RUN: No changes applied. Use -x to execute."))
	}
}

// previewDocument renders the effect of mutate on the merged on-disk
// documents as a unified diff. Execution may be delegated to the
// privileged helper, but the preview always reads the directory
// directly; on a standard install the documents are world-readable.
func previewDocument(mutate func(*netplan.Document) error) (string, error) {
	doc, err := netplan.Load(netplanDir)
	if err != nil {
		return "", err
	}
	before := doc.String()
	if err := mutate(doc); err != nil {
		return "", err
	}
	return unifiedDiff(before, doc.String())
}

// unifiedDiff renders the transition between two document serializations.
func unifiedDiff(before, after string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("rendering diff: %w", err)
	}
	if text == "" {
		text = "No changes.\n"
	}
	return text, nil
}

// withDocumentWrite handles boilerplate for commands that modify the
// configuration documents. The change is previewed as a diff by default;
// -x runs execute instead. Both paths are audited.
func withDocumentWrite(operation, name string, mutate func(*netplan.Document) error, execute func() error) error {
	event := audit.NewEvent(currentUser(), operation).WithInterface(name)
	start := time.Now()

	if !executeMode {
		diff, err := previewDocument(mutate)
		recordAudit(event, start, err)
		if err != nil {
			return err
		}
		fmt.Println("Changes to be applied:")
		fmt.Print(diff)
		printDryRunNotice()
		return nil
	}

	err := execute()
	recordAudit(event, start, err)
	if err != nil {
		return err
	}
	fmt.Println("\n" + green("Changes applied successfully."))
	return nil
}

// withHostWrite handles boilerplate for write commands outside the
// document pipeline (sshd, ntp, services). The pending change is
// described rather than diffed.
func withHostWrite(event *audit.Event, pending string, execute func() error) error {
	start := time.Now()

	if !executeMode {
		fmt.Println("Changes to be applied:")
		fmt.Printf("  %s\n", pending)
		recordAudit(event, start, nil)
		printDryRunNotice()
		return nil
	}

	err := execute()
	recordAudit(event, start, err)
	if err != nil {
		return err
	}
	fmt.Println("\n" + green("Changes applied successfully."))
	return nil
}

// recordAudit finalizes and logs one audit event. Failures to record
// are warnings, never command failures.
func recordAudit(event *audit.Event, start time.Time, err error) {
	event.WithDuration(time.Since(start)).WithExecuteMode(executeMode)
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	if logErr := audit.Log(event); logErr != nil {
		util.Warnf("Could not record audit event: %v", logErr)
	}
}

// isSettingsOrHelp checks whether cmd (or any ancestor) is a settings, help, or version command.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

// addWriteFlags registers -x/--execute as a local flag.
// For noun-group parent commands, this is a PersistentFlag so subcommands inherit.
func addWriteFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVarP(&executeMode, "execute", "x", false, "Execute changes (default is dry-run)")
}

// addOutputFlags registers --json as a local flag.
// For noun-group parent commands, this is a PersistentFlag so subcommands inherit.
func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVar(&jsonOutput, "json", false, "JSON output")
}

// Color helpers — delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
