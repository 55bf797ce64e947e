package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostplan/hostplan/pkg/cli"
	"github.com/hostplan/hostplan/pkg/netplan"
)

var interfaceCmd = &cobra.Command{
	Use:   "interface",
	Short: "Manage interface configuration",
	Long: `Manage the host's netplan interface configuration.

Read commands report the merged view across every document in the
configuration directory. Write commands preview their effect as a
diff by default — use -x to execute.

Examples:
  hostplan interface list
  hostplan interface show eno3
  hostplan interface set eno3 --address 192.168.0.205/24 --gateway 192.168.0.1 -x
  hostplan interface delete eno3 --address 192.168.0.205/24 -x`,
}

var interfaceListPrefix string

var interfaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live host interfaces",
	Long: `List the host's live network interfaces.

This reads the kernel's interface table, not the configuration
directory: an interface appears here whether or not any document
configures it.

Examples:
  hostplan interface list
  hostplan interface list --prefix eno`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := ops.InterfaceNames(interfaceListPrefix)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(names)
		}

		if len(names) == 0 {
			fmt.Println("No interfaces found")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var interfaceShowCmd = &cobra.Command{
	Use:   "show [interface]",
	Short: "Show configured interface settings",
	Long: `Show the merged configuration of one interface, or of every
configured interface when no name is given.

Examples:
  hostplan interface show
  hostplan interface show eno3
  hostplan -i eno3 interface show`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && interfaceName == "" {
			return showAllInterfaces()
		}
		name, err := getInterface(args, 0)
		if err != nil {
			return err
		}
		return showInterface(name)
	},
}

func showAllInterfaces() error {
	configured, err := ops.Interfaces()
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(configured)
	}

	if len(configured) == 0 {
		fmt.Println("No interfaces configured")
		return nil
	}

	t := cli.NewTable("NAME", "DHCP4", "ADDRESSES", "GATEWAY", "NAMESERVERS")
	for _, s := range configured {
		t.Row(s.Name, formatBoolPtr(s.DHCP4), formatList(s.Addresses),
			formatStringPtr(s.Gateway4), formatList(s.Nameservers))
	}
	t.Flush()
	return nil
}

func showInterface(name string) error {
	view, err := ops.Interface(name)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(view)
	}

	if view == nil {
		fmt.Printf("Interface %s is not configured\n", name)
		return nil
	}

	fmt.Printf("Interface: %s\n", bold(name))
	fmt.Printf("DHCP4: %s\n", formatBoolPtr(view.DHCP4))
	fmt.Printf("Gateway4: %s\n", formatStringPtr(view.Gateway4))

	if len(view.Addresses) > 0 {
		fmt.Println("\nAddresses:")
		for _, addr := range view.Addresses {
			fmt.Printf("  %s\n", addr)
		}
	}

	if len(view.Nameservers) > 0 {
		fmt.Println("\nNameservers:")
		for _, ns := range view.Nameservers {
			fmt.Printf("  %s\n", ns)
		}
	}

	return nil
}

var interfaceGetCmd = &cobra.Command{
	Use:   "get <interface> <property>",
	Short: "Get a specific property value",
	Long: `Get a specific property from an interface's merged configuration.

Properties:
  addresses    - Static addresses (CIDR)
  dhcp4        - DHCP state (empty means inherit)
  gateway4     - Default gateway
  nameservers  - DNS server addresses

Examples:
  hostplan interface get eno3 addresses
  hostplan interface get eno3 gateway4
  hostplan -i eno3 interface get dhcp4`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		property := args[len(args)-1]
		name, err := getInterface(args[:len(args)-1], 0)
		if err != nil {
			return err
		}

		view, err := ops.Interface(name)
		if err != nil {
			return err
		}
		if view == nil {
			return fmt.Errorf("interface %s is not configured", name)
		}

		var value interface{}
		switch property {
		case "addresses":
			value = strings.Join(view.Addresses, ", ")
		case "dhcp4":
			value = formatBoolPtr(view.DHCP4)
		case "gateway4":
			value = formatStringPtr(view.Gateway4)
		case "nameservers":
			value = strings.Join(view.Nameservers, ", ")
		default:
			return fmt.Errorf("unknown property: %s (valid: addresses, dhcp4, gateway4, nameservers)", property)
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{property: value})
		}
		fmt.Println(value)
		return nil
	},
}

var interfaceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the stored configuration",
	Long: `Validate every interface stored in the configuration directory and
report all problems at once.

Unlike the write commands, which validate their own edit before
committing, check lints what is already on disk. Like the dry-run
preview, it reads the directory directly rather than going through
the helper.

Examples:
  hostplan interface check
  hostplan -D ./netplan interface check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := netplan.Load(netplanDir)
		if err != nil {
			return err
		}
		if err := netplan.Check(doc); err != nil {
			return err
		}
		fmt.Println(green("Configuration OK"))
		return nil
	},
}

var (
	setAddresses   []string
	setNameservers []string
	setGateway     string
	setDHCP4       bool
)

var interfaceSetCmd = &cobra.Command{
	Use:   "set [interface]",
	Short: "Set interface configuration",
	Long: `Set the named interface's configuration wholesale.

The given values replace the interface's entire entry: fields not
provided here become unset rather than retained. The edit is
validated before anything is written — addresses and nameservers
must parse, only one interface may hold the default gateway, and
DHCP cannot be combined with static addressing.

Examples:
  hostplan interface set eno3 --address 192.168.0.205/24 --gateway 192.168.0.1
  hostplan interface set eno3 --address 192.168.0.205/24 --nameserver 1.1.1.1 -x
  hostplan interface set eth0 --dhcp4=true -x`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := getInterface(args, 0)
		if err != nil {
			return err
		}

		edit := &netplan.InterfaceView{
			Addresses:   setAddresses,
			Nameservers: setNameservers,
		}
		if cmd.Flags().Changed("gateway") {
			edit.Gateway4 = &setGateway
		}
		if cmd.Flags().Changed("dhcp4") {
			edit.DHCP4 = &setDHCP4
		}

		return withDocumentWrite("interface.set", name, func(doc *netplan.Document) error {
			if err := netplan.ValidateEdit(doc, name, edit); err != nil {
				return err
			}
			doc.SetInterface(name, edit.Config())
			return nil
		}, func() error {
			return ops.SetInterface(name, edit)
		})
	},
}

var interfaceInitCmd = &cobra.Command{
	Use:   "init [interface]",
	Short: "Reset an interface to an unmanaged entry",
	Long: `Reset the named interface to an all-unset configuration.

The interface must exist on the host. After the commit the live
interface's addresses are flushed and the link is brought up; a
failure there is an error, not a warning.

Examples:
  hostplan interface init eno3
  hostplan interface init eno3 -x`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := getInterface(args, 0)
		if err != nil {
			return err
		}

		return withDocumentWrite("interface.init", name, func(doc *netplan.Document) error {
			doc.InitInterface(name)
			return nil
		}, func() error {
			return ops.InitInterface(name)
		})
	},
}

var (
	deleteAddresses   []string
	deleteNameservers []string
	deleteGateway     string
)

var interfaceDeleteCmd = &cobra.Command{
	Use:   "delete [interface]",
	Short: "Remove values from an interface",
	Long: `Remove individual values from the named interface's configuration.

Listed addresses and nameservers are removed from their lists; the
gateway is cleared only when the given value matches exactly. The
interface entry itself always remains, holding whatever values were
not removed. Removed addresses are also dropped from the live
interface, best effort.

Examples:
  hostplan interface delete eno3 --address 192.168.0.205/24
  hostplan interface delete eno3 --gateway 192.168.0.1 -x`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := getInterface(args, 0)
		if err != nil {
			return err
		}

		edit := &netplan.InterfaceView{
			Addresses:   deleteAddresses,
			Nameservers: deleteNameservers,
		}
		if cmd.Flags().Changed("gateway") {
			edit.Gateway4 = &deleteGateway
		}

		return withDocumentWrite("interface.delete", name, func(doc *netplan.Document) error {
			return doc.Subtract(name, edit)
		}, func() error {
			return ops.DeleteInterface(name, edit)
		})
	},
}

func formatBoolPtr(b *bool) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatBool(*b)
}

func formatStringPtr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}

func init() {
	interfaceListCmd.Flags().StringVar(&interfaceListPrefix, "prefix", "", "Only list interfaces with this name prefix")

	interfaceSetCmd.Flags().StringArrayVar(&setAddresses, "address", nil, "Static address in CIDR form (repeatable)")
	interfaceSetCmd.Flags().StringVar(&setGateway, "gateway", "", "Default gateway address")
	interfaceSetCmd.Flags().StringArrayVar(&setNameservers, "nameserver", nil, "DNS server address (repeatable)")
	interfaceSetCmd.Flags().BoolVar(&setDHCP4, "dhcp4", false, "Enable or disable DHCP")

	interfaceDeleteCmd.Flags().StringArrayVar(&deleteAddresses, "address", nil, "Address to remove (repeatable)")
	interfaceDeleteCmd.Flags().StringVar(&deleteGateway, "gateway", "", "Gateway to clear (must match exactly)")
	interfaceDeleteCmd.Flags().StringArrayVar(&deleteNameservers, "nameserver", nil, "DNS server to remove (repeatable)")

	interfaceCmd.AddCommand(interfaceListCmd)
	interfaceCmd.AddCommand(interfaceShowCmd)
	interfaceCmd.AddCommand(interfaceGetCmd)
	interfaceCmd.AddCommand(interfaceCheckCmd)
	interfaceCmd.AddCommand(interfaceSetCmd)
	interfaceCmd.AddCommand(interfaceInitCmd)
	interfaceCmd.AddCommand(interfaceDeleteCmd)
}
