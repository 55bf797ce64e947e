package main

import (
	"context"
	"fmt"

	"github.com/hostplan/hostplan/pkg/helper"
	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/nic"
	"github.com/hostplan/hostplan/pkg/service"
	"github.com/hostplan/hostplan/pkg/sysconf"
)

// hostOps is the operation surface the commands run against. It is
// satisfied by helper.Client, so configuring a helper binary routes
// every call through the privileged helper instead of the in-process
// implementation below.
type hostOps interface {
	InterfaceNames(prefix string) ([]string, error)
	Interface(name string) (*netplan.InterfaceView, error)
	Interfaces() ([]netplan.InterfaceSetting, error)
	SetInterface(name string, edit *netplan.InterfaceView) error
	InitInterface(name string) error
	DeleteInterface(name string, edit *netplan.InterfaceView) error

	SshdPort() (int, error)
	SetSshdPort(port int) error

	NtpServers() ([]string, error)
	SetNtpServers(servers []string) error
	NtpActive() (bool, error)
	EnableNtp() error
	DisableNtp() error

	StartService(unit string) error
	StopService(unit string) error
	RestartService(unit string) error
	ServiceStatus(unit string) ([]helper.ServiceState, error)
}

var (
	_ hostOps = (*helper.Client)(nil)
	_ hostOps = (*localOps)(nil)
)

// localOps runs operations in-process. The systemd connection is opened
// on first use, so document commands work on hosts without a reachable
// system bus.
type localOps struct {
	dir   string
	units []string

	svc *service.Manager
}

func (l *localOps) manager() *netplan.Manager {
	return netplan.NewManager(l.dir, nic.NewManager())
}

func (l *localOps) services() (*service.Manager, error) {
	if l.svc == nil {
		svc, err := service.Connect(context.Background(), l.units)
		if err != nil {
			return nil, fmt.Errorf("connecting to systemd: %w", err)
		}
		l.svc = svc
	}
	return l.svc, nil
}

func (l *localOps) InterfaceNames(prefix string) ([]string, error) {
	return l.manager().ListNames(prefix)
}

func (l *localOps) Interface(name string) (*netplan.InterfaceView, error) {
	return l.manager().Get(name)
}

func (l *localOps) Interfaces() ([]netplan.InterfaceSetting, error) {
	return l.manager().GetAll()
}

func (l *localOps) SetInterface(name string, edit *netplan.InterfaceView) error {
	return l.manager().Set(name, edit)
}

func (l *localOps) InitInterface(name string) error {
	return l.manager().Init(name)
}

func (l *localOps) DeleteInterface(name string, edit *netplan.InterfaceView) error {
	return l.manager().Delete(name, edit)
}

// Reads go through a nil service control: sysconf only touches the
// control when restarting, so the port and server lookups stay usable
// without systemd.

func (l *localOps) SshdPort() (int, error) {
	return sysconf.NewSshd(nil).Port()
}

func (l *localOps) SetSshdPort(port int) error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return sysconf.NewSshd(svc).SetPort(port)
}

func (l *localOps) NtpServers() ([]string, error) {
	return sysconf.NewNtp(nil).Servers()
}

func (l *localOps) SetNtpServers(servers []string) error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return sysconf.NewNtp(svc).SetServers(servers)
}

func (l *localOps) NtpActive() (bool, error) {
	svc, err := l.services()
	if err != nil {
		return false, err
	}
	return sysconf.NewNtp(svc).Active(), nil
}

func (l *localOps) EnableNtp() error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return sysconf.NewNtp(svc).Enable()
}

func (l *localOps) DisableNtp() error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return sysconf.NewNtp(svc).Disable()
}

func (l *localOps) StartService(unit string) error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return svc.Start(unit)
}

func (l *localOps) StopService(unit string) error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return svc.Stop(unit)
}

func (l *localOps) RestartService(unit string) error {
	svc, err := l.services()
	if err != nil {
		return err
	}
	return svc.Restart(unit)
}

func (l *localOps) ServiceStatus(unit string) ([]helper.ServiceState, error) {
	svc, err := l.services()
	if err != nil {
		return nil, err
	}
	states, err := svc.Status(unit)
	if err != nil {
		return nil, err
	}
	out := make([]helper.ServiceState, 0, len(states))
	for _, st := range states {
		out = append(out, helper.ServiceState{Unit: st.Unit, State: st.State})
	}
	return out, nil
}
