// Package nic is the system's narrow view of the host's live network
// interfaces: name enumeration, the hard reset run after an interface
// is initialized, and single-address removal. Everything goes through
// the Netlinker seam so the logic is testable without touching the
// host.
package nic

import (
	"fmt"
	"strings"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/hostplan/hostplan/pkg/util"
)

// Netlinker abstracts the netlink operations the manager needs.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	AddrDel(link netlink.Link, addr *netlink.Addr) error
	ParseAddr(s string) (*netlink.Addr, error)
}

// Manager performs live-interface operations through a Netlinker.
type Manager struct {
	nl Netlinker
}

// NewManager creates a manager backed by the host's netlink socket.
func NewManager() *Manager {
	return &Manager{nl: &RealNetlinker{}}
}

// NewManagerWithNetlinker creates a manager with an injected Netlinker,
// for tests.
func NewManagerWithNetlinker(nl Netlinker) *Manager {
	return &Manager{nl: nl}
}

// Names returns the live interface names in kernel enumeration order,
// keeping only those starting with prefix when it is non-empty.
func (m *Manager) Names(prefix string) ([]string, error) {
	links, err := m.nl.LinkList()
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	names := make([]string, 0, len(links))
	for _, link := range links {
		name := link.Attrs().Name
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Reset removes every address from the named interface and brings the
// link up. Applying a rewritten configuration does not clear addresses
// already held by a running interface, so initialization calls this
// afterwards; any failure here is the caller's hard error.
func (m *Manager) Reset(name string) error {
	link, err := m.nl.LinkByName(name)
	if err != nil {
		return fmt.Errorf("looking up interface %s: %w", name, err)
	}
	addrs, err := m.nl.AddrList(link, unix.AF_UNSPEC)
	if err != nil {
		return fmt.Errorf("listing addresses of %s: %w", name, err)
	}
	for i := range addrs {
		if err := m.nl.AddrDel(link, &addrs[i]); err != nil {
			return fmt.Errorf("flushing %s from %s: %w", addrs[i].IPNet, name, err)
		}
	}
	if err := m.nl.LinkSetUp(link); err != nil {
		return fmt.Errorf("bringing up %s: %w", name, err)
	}
	util.WithInterface(name).Debug("live interface reset")
	return nil
}

// DeleteAddress removes one CIDR address from the named interface. The
// kernel rejects removal of an address the interface does not hold, so
// callers on the delete path treat the returned error as ignorable.
func (m *Manager) DeleteAddress(name, address string) error {
	link, err := m.nl.LinkByName(name)
	if err != nil {
		return fmt.Errorf("looking up interface %s: %w", name, err)
	}
	addr, err := m.nl.ParseAddr(address)
	if err != nil {
		return util.NewInvalidAddressError("interface address", address)
	}
	if err := m.nl.AddrDel(link, addr); err != nil {
		return fmt.Errorf("removing %s from %s: %w", address, name, err)
	}
	return nil
}
