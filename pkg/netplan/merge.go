package netplan

import (
	"slices"

	"github.com/hostplan/hostplan/pkg/util"
)

// Merge folds in into d. Scalars take the incoming value only when it is
// present (last-wins). Each incoming interface replaces the same-named
// entry wholesale, or is appended; the mapping is re-sorted afterwards.
// Bridges follow the same replace-or-insert rule per name, but only when
// d already carries a bridge mapping: a document without one is not
// upgraded by the merge.
func (d *Document) Merge(in *Document) {
	if in.Version != nil {
		d.Version = in.Version
	}
	if in.Renderer != nil {
		d.Renderer = in.Renderer
	}

	for i := range in.Interfaces {
		entry := in.Interfaces[i]
		if cfg, ok := d.Interface(entry.Name); ok {
			*cfg = entry.Config
		} else {
			d.Interfaces = append(d.Interfaces, entry)
		}
	}
	d.sortInterfaces()

	if in.Bridges != nil && d.Bridges != nil {
		for name, bridge := range in.Bridges {
			d.Bridges[name] = bridge
		}
	}
}

// SetInterface replaces the named interface's config wholesale, or
// inserts it and re-sorts the mapping when the name is new.
func (d *Document) SetInterface(name string, cfg InterfaceConfig) {
	if existing, ok := d.Interface(name); ok {
		*existing = cfg
		return
	}
	d.Interfaces = append(d.Interfaces, InterfaceEntry{Name: name, Config: cfg})
	d.sortInterfaces()
}

// InitInterface resets the named interface to the all-unset config,
// inserting it if absent.
func (d *Document) InitInterface(name string) {
	d.SetInterface(name, InterfaceConfig{})
}

// Subtract removes the edit's values from the named interface: listed
// addresses are removed from the address list, the gateway is cleared
// only on an exact match, and listed nameserver values are removed from
// whichever role list holds them. The interface entry itself is never
// removed, even when every field ends up empty.
func (d *Document) Subtract(name string, edit *InterfaceView) error {
	cfg, ok := d.Interface(name)
	if !ok {
		return util.NewInterfaceNotFoundError(name)
	}

	for _, addr := range edit.Addresses {
		cfg.Addresses = slices.DeleteFunc(cfg.Addresses, func(s string) bool { return s == addr })
	}

	if edit.Gateway4 != nil && cfg.Gateway4 != nil && *cfg.Gateway4 == *edit.Gateway4 {
		cfg.Gateway4 = nil
	}

	for _, value := range edit.Nameservers {
		for role := range cfg.Nameservers {
			if slices.Contains(cfg.Nameservers[role], value) {
				cfg.Nameservers[role] = slices.DeleteFunc(cfg.Nameservers[role], func(s string) bool { return s == value })
			}
		}
	}

	return nil
}
