// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration and commit failures
var (
	ErrMalformedConfig     = errors.New("malformed netplan configuration")
	ErrConfigNotFound      = errors.New("netplan configuration not found")
	ErrInterfaceNotFound   = errors.New("interface not found")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrGatewayConflict     = errors.New("gateway already assigned")
	ErrAddressModeConflict = errors.New("dhcp4 and static address cannot be set on the same interface")
	ErrValidationFailed    = errors.New("validation failed")
	ErrCommitFailed        = errors.New("commit failed")
	ErrTransportFailed     = errors.New("helper transport failed")
)

// MalformedConfigError reports an unparseable or schema-violating document
type MalformedConfigError struct {
	Path   string
	Reason string
}

func (e *MalformedConfigError) Error() string {
	if e.Path == "" {
		return "malformed netplan configuration: " + e.Reason
	}
	return fmt.Sprintf("malformed netplan configuration in %s: %s", e.Path, e.Reason)
}

func (e *MalformedConfigError) Unwrap() error {
	return ErrMalformedConfig
}

// NewMalformedConfigError creates a malformed-config error
func NewMalformedConfigError(path, reason string) *MalformedConfigError {
	return &MalformedConfigError{Path: path, Reason: reason}
}

// InterfaceNotFoundError reports a reference to an interface that does not exist
type InterfaceNotFoundError struct {
	Name string
}

func (e *InterfaceNotFoundError) Error() string {
	return fmt.Sprintf("interface %q not found", e.Name)
}

func (e *InterfaceNotFoundError) Unwrap() error {
	return ErrInterfaceNotFound
}

// NewInterfaceNotFoundError creates an interface-not-found error
func NewInterfaceNotFoundError(name string) *InterfaceNotFoundError {
	return &InterfaceNotFoundError{Name: name}
}

// InvalidAddressError reports an address, gateway, or nameserver that
// failed to parse
type InvalidAddressError struct {
	Field string
	Value string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *InvalidAddressError) Unwrap() error {
	return ErrInvalidAddress
}

// NewInvalidAddressError creates an invalid-address error
func NewInvalidAddressError(field, value string) *InvalidAddressError {
	return &InvalidAddressError{Field: field, Value: value}
}

// GatewayConflictError reports a second default gateway in the merged view
type GatewayConflictError struct {
	Iface  string
	Holder string
}

func (e *GatewayConflictError) Error() string {
	return fmt.Sprintf("only one interface can have a gateway: %s already has one", e.Holder)
}

func (e *GatewayConflictError) Unwrap() error {
	return ErrGatewayConflict
}

// NewGatewayConflictError creates a gateway-conflict error
func NewGatewayConflictError(iface, holder string) *GatewayConflictError {
	return &GatewayConflictError{Iface: iface, Holder: holder}
}

// CommitError reports a failed commit step; earlier steps are not rolled
// back, so the directory may hold an intermediate state
type CommitError struct {
	Step string
	Path string
	Err  error
}

func (e *CommitError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("commit failed at %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("commit failed at %s (%s): %v", e.Step, e.Path, e.Err)
}

func (e *CommitError) Unwrap() error {
	return ErrCommitFailed
}

// NewCommitError creates a commit error for the named pipeline step
func NewCommitError(step, path string, err error) *CommitError {
	return &CommitError{Step: step, Path: path, Err: err}
}

// TransportError reports a failure talking to the privileged helper,
// distinct from an application error the helper itself returned
type TransportError struct {
	Stage string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("helper transport failed during %s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return ErrTransportFailed
}

// NewTransportError creates a transport error for the named stage
func NewTransportError(stage string, err error) *TransportError {
	return &TransportError{Stage: stage, Err: err}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
