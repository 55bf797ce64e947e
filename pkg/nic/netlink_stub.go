//go:build !linux

package nic

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// RealNetlinker is a stub for platforms without netlink.
type RealNetlinker struct{}

func (r *RealNetlinker) LinkByName(name string) (netlink.Link, error) {
	return nil, fmt.Errorf("netlink not supported on this platform")
}

func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return nil, fmt.Errorf("netlink not supported on this platform")
}

func (r *RealNetlinker) LinkSetUp(link netlink.Link) error {
	return fmt.Errorf("netlink not supported on this platform")
}

func (r *RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return nil, fmt.Errorf("netlink not supported on this platform")
}

func (r *RealNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return fmt.Errorf("netlink not supported on this platform")
}

func (r *RealNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	return netlink.ParseAddr(s)
}
