package main

import (
	"fmt"

	"github.com/hostplan/hostplan/pkg/helper"
	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/service"
)

// interfaceOps is the slice of the netplan manager the handler uses.
type interfaceOps interface {
	ListNames(prefix string) ([]string, error)
	Get(name string) (*netplan.InterfaceView, error)
	GetAll() ([]netplan.InterfaceSetting, error)
	Set(name string, edit *netplan.InterfaceView) error
	Init(name string) error
	Delete(name string, edit *netplan.InterfaceView) error
}

type sshdOps interface {
	Port() (int, error)
	SetPort(port int) error
}

type ntpOps interface {
	Servers() ([]string, error)
	SetServers(servers []string) error
	Active() bool
	Enable() error
	Disable() error
}

type serviceOps interface {
	Start(unit string) error
	Stop(unit string) error
	Restart(unit string) error
	Status(unit string) ([]service.UnitState, error)
}

// handler executes requests against the host.
type handler struct {
	interfaces interfaceOps
	sshd       sshdOps
	ntp        ntpOps
	services   serviceOps
}

// handle runs one request and always produces a reply.
func (h *handler) handle(req *helper.Request) *helper.TaskResult {
	payload, err := h.dispatch(req)
	if err != nil {
		return helper.ErrResult(err)
	}
	result, err := helper.OkResult(payload)
	if err != nil {
		return helper.ErrResult(err)
	}
	return result
}

func (h *handler) dispatch(req *helper.Request) (interface{}, error) {
	switch req.Op {
	case helper.OpInterfaceNames:
		var prefix string
		if err := helper.DecodePayload(req.Arg, &prefix); err != nil {
			return nil, err
		}
		return h.interfaces.ListNames(prefix)

	case helper.OpInterfaceGet:
		var name string
		if err := helper.DecodePayload(req.Arg, &name); err != nil {
			return nil, err
		}
		return h.interfaces.Get(name)

	case helper.OpInterfaceGetAll:
		return h.interfaces.GetAll()

	case helper.OpInterfaceSet:
		var arg helper.EditArg
		if err := helper.DecodePayload(req.Arg, &arg); err != nil {
			return nil, err
		}
		if err := h.interfaces.Set(arg.Name, arg.Edit); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpInterfaceInit:
		var name string
		if err := helper.DecodePayload(req.Arg, &name); err != nil {
			return nil, err
		}
		if err := h.interfaces.Init(name); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpInterfaceDelete:
		var arg helper.EditArg
		if err := helper.DecodePayload(req.Arg, &arg); err != nil {
			return nil, err
		}
		if err := h.interfaces.Delete(arg.Name, arg.Edit); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpSshdPort:
		return h.sshd.Port()

	case helper.OpSshdSetPort:
		var port int
		if err := helper.DecodePayload(req.Arg, &port); err != nil {
			return nil, err
		}
		if err := h.sshd.SetPort(port); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpNtpServers:
		return h.ntp.Servers()

	case helper.OpNtpSetServers:
		var servers []string
		if err := helper.DecodePayload(req.Arg, &servers); err != nil {
			return nil, err
		}
		if err := h.ntp.SetServers(servers); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpNtpActive:
		return h.ntp.Active(), nil

	case helper.OpNtpEnable:
		if err := h.ntp.Enable(); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpNtpDisable:
		if err := h.ntp.Disable(); err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpServiceStart, helper.OpServiceStop, helper.OpServiceRestart:
		var unit string
		if err := helper.DecodePayload(req.Arg, &unit); err != nil {
			return nil, err
		}
		var err error
		switch req.Op {
		case helper.OpServiceStart:
			err = h.services.Start(unit)
		case helper.OpServiceStop:
			err = h.services.Stop(unit)
		case helper.OpServiceRestart:
			err = h.services.Restart(unit)
		}
		if err != nil {
			return nil, err
		}
		return true, nil

	case helper.OpServiceStatus:
		var unit string
		if err := helper.DecodePayload(req.Arg, &unit); err != nil {
			return nil, err
		}
		states, err := h.services.Status(unit)
		if err != nil {
			return nil, err
		}
		out := make([]helper.ServiceState, 0, len(states))
		for _, st := range states {
			out = append(out, helper.ServiceState{Unit: st.Unit, State: st.State})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown operation %q", req.Op)
	}
}
