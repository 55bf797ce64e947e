package netplan

import (
	"fmt"

	"github.com/hostplan/hostplan/pkg/util"
)

// ValidateEdit validates a proposed edit against the currently loaded
// merged document. It is a pure function of (document, edit): the first
// failing check wins and the document is never touched.
func ValidateEdit(doc *Document, name string, edit *InterfaceView) error {
	for _, addr := range edit.Addresses {
		if !util.IsValidCIDR(addr) {
			return util.NewInvalidAddressError("interface address", addr)
		}
	}

	if edit.Gateway4 != nil {
		if !util.IsValidIP(*edit.Gateway4) {
			return util.NewInvalidAddressError("gateway4 address", *edit.Gateway4)
		}
		for i := range doc.Interfaces {
			other := &doc.Interfaces[i]
			if other.Name == name {
				continue
			}
			if other.Config.Gateway4 != nil && *other.Config.Gateway4 != "" {
				return util.NewGatewayConflictError(name, other.Name)
			}
		}
	}

	for _, ns := range edit.Nameservers {
		if !util.IsValidIP(ns) {
			return util.NewInvalidAddressError("nameserver address", ns)
		}
	}

	if edit.DHCP4 != nil && *edit.DHCP4 && (edit.Addresses != nil || edit.Nameservers != nil) {
		return fmt.Errorf("interface %q: %w", name, util.ErrAddressModeConflict)
	}

	return nil
}

// Check validates every interface stored in a merged document and
// reports all problems at once. Unlike ValidateEdit it inspects what is
// already on disk, so it is useful as a standalone lint of the current
// state.
func Check(doc *Document) error {
	v := &util.ValidationBuilder{}
	gatewayHolder := ""

	for i := range doc.Interfaces {
		name := doc.Interfaces[i].Name
		cfg := &doc.Interfaces[i].Config

		for _, addr := range cfg.Addresses {
			if !util.IsValidCIDR(addr) {
				v.AddErrorf("interface %s: invalid address %q", name, addr)
			}
		}
		if cfg.Gateway4 != nil && *cfg.Gateway4 != "" {
			if !util.IsValidIP(*cfg.Gateway4) {
				v.AddErrorf("interface %s: invalid gateway4 %q", name, *cfg.Gateway4)
			}
			if gatewayHolder != "" {
				v.AddErrorf("interfaces %s and %s both configure a gateway", gatewayHolder, name)
			} else {
				gatewayHolder = name
			}
		}
		for role, list := range cfg.Nameservers {
			for _, ns := range list {
				if !util.IsValidIP(ns) {
					v.AddErrorf("interface %s: invalid %s nameserver %q", name, role, ns)
				}
			}
		}
		if cfg.DHCP4 != nil && *cfg.DHCP4 && (len(cfg.Addresses) > 0 || len(cfg.Nameservers[nsAddresses]) > 0) {
			v.AddErrorf("interface %s: dhcp4 enabled alongside static settings", name)
		}
	}

	for name, bridge := range doc.Bridges {
		for _, addr := range bridge.Addresses {
			if !util.IsValidCIDR(addr) {
				v.AddErrorf("bridge %s: invalid address %q", name, addr)
			}
		}
		if bridge.Gateway4 != nil && *bridge.Gateway4 != "" && !util.IsValidIP(*bridge.Gateway4) {
			v.AddErrorf("bridge %s: invalid gateway4 %q", name, *bridge.Gateway4)
		}
	}

	return v.Build()
}
