// Package service wraps the host's systemd units behind a small
// manager: start/stop/restart, activity state, and a TCP readiness
// probe for services that open their port some time after the unit
// reports active. Unit operations go over the system D-Bus.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/hostplan/hostplan/pkg/util"
)

// DefaultUnits is the set of units covered by whole-set operations when
// the caller does not configure its own.
var DefaultUnits = []string{"systemd-networkd", "sshd", "ntp"}

// Conn is the slice of the systemd D-Bus API the manager uses.
type Conn interface {
	StartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	RestartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
}

// UnitState is one unit's name and activity state.
type UnitState struct {
	Unit  string `json:"unit"`
	State string `json:"state"`
}

// Manager operates on systemd units through a Conn.
type Manager struct {
	conn  Conn
	units []string
}

// Connect opens a system bus connection and returns a manager over the
// given unit set, or DefaultUnits when the set is empty.
func Connect(ctx context.Context, units []string) (*Manager, error) {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to systemd: %w", err)
	}
	return NewManagerWithConn(conn, units), nil
}

// NewManagerWithConn creates a manager over an existing connection.
func NewManagerWithConn(conn Conn, units []string) *Manager {
	if len(units) == 0 {
		units = DefaultUnits
	}
	return &Manager{conn: conn, units: units}
}

// unitName appends the .service suffix to bare names; names that
// already carry a unit type pass through.
func unitName(unit string) string {
	if strings.Contains(unit, ".") {
		return unit
	}
	return unit + ".service"
}

// Start starts a unit and waits for the job to finish.
func (m *Manager) Start(unit string) error {
	return m.job("start", unit)
}

// Stop stops a unit and waits for the job to finish.
func (m *Manager) Stop(unit string) error {
	return m.job("stop", unit)
}

// Restart restarts a unit and waits for the job to finish.
func (m *Manager) Restart(unit string) error {
	return m.job("restart", unit)
}

func (m *Manager) job(verb, unit string) error {
	ctx := context.Background()
	name := unitName(unit)
	result := make(chan string, 1)

	var err error
	switch verb {
	case "start":
		_, err = m.conn.StartUnitContext(ctx, name, "replace", result)
	case "stop":
		_, err = m.conn.StopUnitContext(ctx, name, "replace", result)
	case "restart":
		_, err = m.conn.RestartUnitContext(ctx, name, "replace", result)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", verb, name, err)
	}
	if r := <-result; r != "done" {
		return fmt.Errorf("%s %s: job finished as %q", verb, name, r)
	}
	util.WithField("unit", name).Debugf("unit %s complete", verb)
	return nil
}

// Active reports whether the named unit is currently active.
func (m *Manager) Active(unit string) (bool, error) {
	states, err := m.Status(unit)
	if err != nil {
		return false, err
	}
	return len(states) == 1 && states[0].State == "active", nil
}

// Status returns the activity state of the named unit, or of every
// managed unit when unit is empty, in stable order.
func (m *Manager) Status(unit string) ([]UnitState, error) {
	units := m.units
	if unit != "" {
		units = []string{unit}
	}

	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, unitName(u))
	}
	statuses, err := m.conn.ListUnitsByNamesContext(context.Background(), names)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}

	byName := make(map[string]string, len(statuses))
	for _, st := range statuses {
		byName[st.Name] = st.ActiveState
	}

	out := make([]UnitState, 0, len(units))
	for _, u := range units {
		state, ok := byName[unitName(u)]
		if !ok {
			state = "unknown"
		}
		out = append(out, UnitState{Unit: u, State: state})
	}
	return out, nil
}

// StopAll stops every managed unit that is currently active.
func (m *Manager) StopAll() error {
	states, err := m.Status("")
	if err != nil {
		return err
	}
	for _, st := range states {
		if st.State != "active" {
			continue
		}
		if err := m.Stop(st.Unit); err != nil {
			return err
		}
	}
	return nil
}
