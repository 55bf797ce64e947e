// Package helper speaks the privileged-helper protocol: a client
// spawns the helper binary, writes one JSON Request to its stdin, and
// reads one JSON TaskResult from its stdout. Operation payloads travel
// base64-encoded so the outer envelope stays a single flat JSON object
// in both directions.
package helper

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hostplan/hostplan/pkg/netplan"
)

// Op identifies one helper operation.
type Op string

const (
	OpInterfaceNames  Op = "interface.names"
	OpInterfaceGet    Op = "interface.get"
	OpInterfaceGetAll Op = "interface.getall"
	OpInterfaceSet    Op = "interface.set"
	OpInterfaceInit   Op = "interface.init"
	OpInterfaceDelete Op = "interface.delete"

	OpSshdPort    Op = "sshd.port"
	OpSshdSetPort Op = "sshd.setport"

	OpNtpServers    Op = "ntp.servers"
	OpNtpSetServers Op = "ntp.setservers"
	OpNtpActive     Op = "ntp.active"
	OpNtpEnable     Op = "ntp.enable"
	OpNtpDisable    Op = "ntp.disable"

	OpServiceStart   Op = "service.start"
	OpServiceStop    Op = "service.stop"
	OpServiceRestart Op = "service.restart"
	OpServiceStatus  Op = "service.status"
)

// Request is one command sent to the helper.
type Request struct {
	ID  string `json:"id"`
	Op  Op     `json:"op"`
	Arg string `json:"arg,omitempty"`
}

// TaskResult is the helper's reply: exactly one of Ok (the encoded
// payload) or Err (a message for the caller) is set.
type TaskResult struct {
	Ok  *string `json:"ok,omitempty"`
	Err *string `json:"err,omitempty"`
}

// EditArg carries the target and values of a set or delete operation.
type EditArg struct {
	Name string                 `json:"name"`
	Edit *netplan.InterfaceView `json:"edit"`
}

// ServiceState is one unit's name and activity state.
type ServiceState struct {
	Unit  string `json:"unit"`
	State string `json:"state"`
}

// EncodePayload serializes v to JSON and wraps it in base64.
func EncodePayload(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload reverses EncodePayload into v.
func DecodePayload(s string, v interface{}) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

// NewRequest builds a request with a fresh ID and an encoded argument.
// A nil arg leaves the argument empty.
func NewRequest(op Op, arg interface{}) (*Request, error) {
	req := &Request{ID: uuid.New().String(), Op: op}
	if arg != nil {
		encoded, err := EncodePayload(arg)
		if err != nil {
			return nil, err
		}
		req.Arg = encoded
	}
	return req, nil
}

// OkResult builds a success reply around an encoded payload.
func OkResult(v interface{}) (*TaskResult, error) {
	encoded, err := EncodePayload(v)
	if err != nil {
		return nil, err
	}
	return &TaskResult{Ok: &encoded}, nil
}

// ErrResult builds a failure reply from an error.
func ErrResult(err error) *TaskResult {
	msg := err.Error()
	return &TaskResult{Err: &msg}
}
