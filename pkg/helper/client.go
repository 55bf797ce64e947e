package helper

import (
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"

	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/util"
)

// DefaultBinary is the helper executable resolved through PATH when no
// explicit path is configured.
const DefaultBinary = "hostplan-helper"

// Client spawns the privileged helper once per call and exchanges a
// single request/response pair over its stdin and stdout.
type Client struct {
	Path string
}

// NewClient creates a client for the helper at path, or DefaultBinary
// when path is empty.
func NewClient(path string) *Client {
	if path == "" {
		path = DefaultBinary
	}
	return &Client{Path: path}
}

// call runs one request through a fresh helper process. The request is
// written from its own goroutine while this one waits for the process
// and drains stdout, so neither side can block on a full pipe buffer;
// the writer is joined before call returns.
//
// A failure of the exchange itself (spawn, write, exit status,
// unparseable reply) is a TransportError; an Err reply is the helper's
// own application error and is returned verbatim.
func (c *Client) call(req *Request) (string, error) {
	cmd := exec.Command(c.Path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", util.NewTransportError("spawn", err)
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		return "", util.NewTransportError("spawn", err)
	}

	written := make(chan error, 1)
	go func() {
		defer stdin.Close()
		written <- json.NewEncoder(stdin).Encode(req)
	}()

	waitErr := cmd.Wait()
	writeErr := <-written
	if waitErr != nil {
		return "", util.NewTransportError("wait", waitErr)
	}
	if writeErr != nil {
		return "", util.NewTransportError("write", writeErr)
	}

	var result TaskResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return "", util.NewTransportError("parse", err)
	}
	switch {
	case result.Err != nil:
		return "", errors.New(*result.Err)
	case result.Ok != nil:
		return *result.Ok, nil
	default:
		return "", util.NewTransportError("parse", errors.New("reply carries neither ok nor err"))
	}
}

func (c *Client) run(op Op, arg interface{}) (string, error) {
	req, err := NewRequest(op, arg)
	if err != nil {
		return "", err
	}
	return c.call(req)
}

// ack runs an operation whose reply payload carries no information.
func (c *Client) ack(op Op, arg interface{}) error {
	_, err := c.run(op, arg)
	return err
}

// InterfaceNames returns the host's live interface names, optionally
// filtered by prefix.
func (c *Client) InterfaceNames(prefix string) ([]string, error) {
	payload, err := c.run(OpInterfaceNames, prefix)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := DecodePayload(payload, &names); err != nil {
		return nil, util.NewTransportError("decode", err)
	}
	return names, nil
}

// Interface returns the named interface's configured view, or nil when
// it is not configured.
func (c *Client) Interface(name string) (*netplan.InterfaceView, error) {
	payload, err := c.run(OpInterfaceGet, name)
	if err != nil {
		return nil, err
	}
	var view *netplan.InterfaceView
	if err := DecodePayload(payload, &view); err != nil {
		return nil, util.NewTransportError("decode", err)
	}
	return view, nil
}

// Interfaces returns every configured interface's view.
func (c *Client) Interfaces() ([]netplan.InterfaceSetting, error) {
	payload, err := c.run(OpInterfaceGetAll, nil)
	if err != nil {
		return nil, err
	}
	var settings []netplan.InterfaceSetting
	if err := DecodePayload(payload, &settings); err != nil {
		return nil, util.NewTransportError("decode", err)
	}
	return settings, nil
}

// SetInterface overwrites the named interface's configuration.
func (c *Client) SetInterface(name string, edit *netplan.InterfaceView) error {
	return c.ack(OpInterfaceSet, &EditArg{Name: name, Edit: edit})
}

// InitInterface resets the named interface to an unset configuration.
func (c *Client) InitInterface(name string) error {
	return c.ack(OpInterfaceInit, name)
}

// DeleteInterface removes the edit's values from the named interface.
func (c *Client) DeleteInterface(name string, edit *netplan.InterfaceView) error {
	return c.ack(OpInterfaceDelete, &EditArg{Name: name, Edit: edit})
}

// SshdPort returns the sshd listening port.
func (c *Client) SshdPort() (int, error) {
	payload, err := c.run(OpSshdPort, nil)
	if err != nil {
		return 0, err
	}
	var port int
	if err := DecodePayload(payload, &port); err != nil {
		return 0, util.NewTransportError("decode", err)
	}
	return port, nil
}

// SetSshdPort rewrites the sshd listening port and restarts sshd.
func (c *Client) SetSshdPort(port int) error {
	return c.ack(OpSshdSetPort, port)
}

// NtpServers returns the configured NTP server names; nil when none are
// configured.
func (c *Client) NtpServers() ([]string, error) {
	payload, err := c.run(OpNtpServers, nil)
	if err != nil {
		return nil, err
	}
	var servers []string
	if err := DecodePayload(payload, &servers); err != nil {
		return nil, util.NewTransportError("decode", err)
	}
	return servers, nil
}

// SetNtpServers replaces the configured NTP servers and restarts the
// service.
func (c *Client) SetNtpServers(servers []string) error {
	return c.ack(OpNtpSetServers, servers)
}

// NtpActive reports whether the NTP service is active.
func (c *Client) NtpActive() (bool, error) {
	payload, err := c.run(OpNtpActive, nil)
	if err != nil {
		return false, err
	}
	var active bool
	if err := DecodePayload(payload, &active); err != nil {
		return false, util.NewTransportError("decode", err)
	}
	return active, nil
}

// EnableNtp restarts the NTP service.
func (c *Client) EnableNtp() error {
	return c.ack(OpNtpEnable, nil)
}

// DisableNtp stops the NTP service.
func (c *Client) DisableNtp() error {
	return c.ack(OpNtpDisable, nil)
}

// StartService starts a systemd unit.
func (c *Client) StartService(unit string) error {
	return c.ack(OpServiceStart, unit)
}

// StopService stops a systemd unit.
func (c *Client) StopService(unit string) error {
	return c.ack(OpServiceStop, unit)
}

// RestartService restarts a systemd unit.
func (c *Client) RestartService(unit string) error {
	return c.ack(OpServiceRestart, unit)
}

// ServiceStatus returns the activity state of the named unit, or of
// every managed unit when unit is empty.
func (c *Client) ServiceStatus(unit string) ([]ServiceState, error) {
	payload, err := c.run(OpServiceStatus, unit)
	if err != nil {
		return nil, err
	}
	var states []ServiceState
	if err := DecodePayload(payload, &states); err != nil {
		return nil, util.NewTransportError("decode", err)
	}
	return states, nil
}
