package netplan

import (
	"sort"
)

// InterfaceConfig holds one interface's settings as stored in a netplan
// document. Every field is optional: a nil field means "unset", which is
// distinct from present-but-empty. Unset fields are omitted when the
// document is serialized.
type InterfaceConfig struct {
	Addresses   []string            `yaml:"addresses,omitempty"`
	DHCP4       *bool               `yaml:"dhcp4,omitempty"`
	Gateway4    *string             `yaml:"gateway4,omitempty"`
	Nameservers map[string][]string `yaml:"nameservers,omitempty"`
	Optional    *bool               `yaml:"optional,omitempty"`
}

// BridgeNameservers is the nameserver block of a bridge.
type BridgeNameservers struct {
	Search    []string `yaml:"search,omitempty"`
	Addresses []string `yaml:"addresses"`
}

// BridgeConfig holds one bridge's settings. Member interfaces are an
// ordered sequence, not a set.
type BridgeConfig struct {
	Interfaces  []string          `yaml:"interfaces"`
	Addresses   []string          `yaml:"addresses"`
	Gateway4    *string           `yaml:"gateway4,omitempty"`
	Nameservers BridgeNameservers `yaml:"nameservers"`
}

// InterfaceEntry is one (name, config) pair of a Document's interface
// mapping.
type InterfaceEntry struct {
	Name   string
	Config InterfaceConfig
}

// Document is one parsed netplan configuration document, or the merged
// view of several. The interface mapping is an ordered sequence of pairs
// rather than a map so that serialization order is under our control; it
// is re-sorted lexicographically by name after every mutation.
type Document struct {
	Version    *int
	Renderer   *string
	Interfaces []InterfaceEntry
	Bridges    map[string]BridgeConfig
}

// Interface returns a pointer to the named interface's config, or false
// if the document does not contain it.
func (d *Document) Interface(name string) (*InterfaceConfig, bool) {
	for i := range d.Interfaces {
		if d.Interfaces[i].Name == name {
			return &d.Interfaces[i].Config, true
		}
	}
	return nil, false
}

// InterfaceNames returns the interface names in stored order.
func (d *Document) InterfaceNames() []string {
	names := make([]string, 0, len(d.Interfaces))
	for i := range d.Interfaces {
		names = append(names, d.Interfaces[i].Name)
	}
	return names
}

func (d *Document) sortInterfaces() {
	sort.SliceStable(d.Interfaces, func(i, j int) bool {
		return d.Interfaces[i].Name < d.Interfaces[j].Name
	})
}

// cloneStrings copies a string slice, preserving the distinction between
// nil and empty.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
