package netplan

// nsAddresses and nsSearch are the role keys of an interface's
// nameserver block.
const (
	nsAddresses = "addresses"
	nsSearch    = "search"
)

// InterfaceView is the simplified, externally-facing shape of one
// interface's settings: the nameserver block is flattened to its address
// list. Search domains are dropped on the way out and come back as an
// empty list on the way in, never invented.
type InterfaceView struct {
	Addresses   []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	DHCP4       *bool    `json:"dhcp4,omitempty" yaml:"dhcp4,omitempty"`
	Gateway4    *string  `json:"gateway4,omitempty" yaml:"gateway4,omitempty"`
	Nameservers []string `json:"nameservers,omitempty" yaml:"nameservers,omitempty"`
}

// InterfaceSetting pairs an interface name with its view, for callers
// that list several interfaces at once.
type InterfaceSetting struct {
	Name          string `json:"name" yaml:"name"`
	InterfaceView `yaml:",inline"`
}

// Config converts the view to the stored document shape. A non-nil
// nameserver list becomes an "addresses" role plus an empty "search"
// role; the optional-at-boot flag is always left unset.
func (v *InterfaceView) Config() InterfaceConfig {
	cfg := InterfaceConfig{
		Addresses: cloneStrings(v.Addresses),
		DHCP4:     v.DHCP4,
		Gateway4:  v.Gateway4,
	}
	if v.Nameservers != nil {
		cfg.Nameservers = map[string][]string{
			nsAddresses: cloneStrings(v.Nameservers),
			nsSearch:    {},
		}
	}
	return cfg
}

// View converts the stored shape to the external one, keeping only the
// "addresses" role of the nameserver block.
func (c *InterfaceConfig) View() InterfaceView {
	var nameservers []string
	if c.Nameservers != nil {
		nameservers = cloneStrings(c.Nameservers[nsAddresses])
	}
	return InterfaceView{
		Addresses:   cloneStrings(c.Addresses),
		DHCP4:       c.DHCP4,
		Gateway4:    c.Gateway4,
		Nameservers: nameservers,
	}
}
