// Package audit provides audit logging for configuration changes.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event represents an auditable configuration change event
type Event struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	User        string        `json:"user"`
	Operation   string        `json:"operation"`
	Interface   string        `json:"interface,omitempty"`
	Unit        string        `json:"unit,omitempty"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"` // true if -x was used
	DryRun      bool          `json:"dry_run"`
	Duration    time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	User        string
	Operation   string
	Interface   string
	Unit        string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Operation: operation,
	}
}

// WithInterface sets the interface name
func (e *Event) WithInterface(iface string) *Event {
	e.Interface = iface
	return e
}

// WithUnit sets the systemd unit name
func (e *Event) WithUnit(unit string) *Event {
	e.Unit = unit
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks if execute mode was used
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}

func generateID() string {
	return uuid.New().String()
}
