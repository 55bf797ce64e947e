// Package netplan manages a host's declarative network configuration as
// a directory of netplan YAML documents: parsing, merging, validating,
// and committing them back as a single file before asking the OS to
// adopt the result.
package netplan

import (
	"fmt"
	"slices"

	"github.com/hostplan/hostplan/pkg/util"
)

const (
	// DefaultDir is where netplan looks for configuration documents.
	DefaultDir = "/etc/netplan"
	// DefaultFileName is the primary document name used when the
	// directory is empty.
	DefaultFileName = "01-netcfg.yaml"
	// DefaultStagingDir is where documents are staged before being
	// promoted into the configuration directory.
	DefaultStagingDir = "/tmp"
)

// NicController is the slice of live-interface behavior the manager
// needs: existence and listing, the hard reset used by Init, and the
// per-address removal used by Delete.
type NicController interface {
	Names(prefix string) ([]string, error)
	Reset(name string) error
	DeleteAddress(name, address string) error
}

// Manager implements the public operations. Each call re-loads the
// directory, mutates the merged document in memory, and commits; no
// state is carried between calls.
type Manager struct {
	dir       string
	nics      NicController
	committer *Committer
}

// NewManager creates a manager over the given configuration directory.
func NewManager(dir string, nics NicController) *Manager {
	return &Manager{dir: dir, nics: nics, committer: NewCommitter(dir)}
}

// NewManagerWithDeps creates a manager with an injected committer, for
// callers that need to redirect staging or command execution.
func NewManagerWithDeps(dir string, nics NicController, committer *Committer) *Manager {
	return &Manager{dir: dir, nics: nics, committer: committer}
}

// Init resets the named interface to an all-unset configuration and
// commits. The interface must exist on the host. After the commit the
// live interface is zeroed and brought up, because the apply step alone
// does not clear addresses already assigned to a running interface;
// failure of that reset is a hard error.
func (m *Manager) Init(name string) error {
	doc, err := Load(m.dir)
	if err != nil {
		return err
	}

	names, err := m.nics.Names("")
	if err != nil {
		return fmt.Errorf("listing host interfaces: %w", err)
	}
	if !slices.Contains(names, name) {
		return util.NewInterfaceNotFoundError(name)
	}

	doc.InitInterface(name)
	if err := m.committer.Commit(doc); err != nil {
		return err
	}

	if err := m.nics.Reset(name); err != nil {
		return fmt.Errorf("resetting live interface %s: %w", name, err)
	}
	util.WithInterface(name).Info("interface initialized")
	return nil
}

// Set overwrites the named interface's configuration wholesale with the
// given edit and commits. The edit is validated against the loaded
// document first; on validation failure nothing is written.
func (m *Manager) Set(name string, edit *InterfaceView) error {
	doc, err := Load(m.dir)
	if err != nil {
		return err
	}
	if err := ValidateEdit(doc, name, edit); err != nil {
		return err
	}
	doc.SetInterface(name, edit.Config())
	if err := m.committer.Commit(doc); err != nil {
		return err
	}
	util.WithInterface(name).Info("interface configuration set")
	return nil
}

// Get returns the named interface's view from the merged on-disk
// documents, or nil (with no error) when the name is not configured.
func (m *Manager) Get(name string) (*InterfaceView, error) {
	doc, err := Load(m.dir)
	if err != nil {
		return nil, err
	}
	cfg, ok := doc.Interface(name)
	if !ok {
		return nil, nil
	}
	view := cfg.View()
	return &view, nil
}

// GetAll returns every configured interface's view in stored order.
func (m *Manager) GetAll() ([]InterfaceSetting, error) {
	doc, err := Load(m.dir)
	if err != nil {
		return nil, err
	}
	settings := make([]InterfaceSetting, 0, len(doc.Interfaces))
	for i := range doc.Interfaces {
		settings = append(settings, InterfaceSetting{
			Name:          doc.Interfaces[i].Name,
			InterfaceView: doc.Interfaces[i].Config.View(),
		})
	}
	return settings, nil
}

// Delete subtracts the edit's values from the named interface and
// commits, then removes each listed address from the live interface.
// The live removals are best effort: an address that was never actually
// assigned makes the removal command fail, which is logged and ignored.
func (m *Manager) Delete(name string, edit *InterfaceView) error {
	doc, err := Load(m.dir)
	if err != nil {
		return err
	}
	if err := doc.Subtract(name, edit); err != nil {
		return err
	}
	if err := m.committer.Commit(doc); err != nil {
		return err
	}

	for _, addr := range edit.Addresses {
		if err := m.nics.DeleteAddress(name, addr); err != nil {
			util.WithInterface(name).Warnf("removing live address %s: %v", addr, err)
		}
	}
	util.WithInterface(name).Info("interface values removed")
	return nil
}

// ListNames returns the host's live interface names, optionally
// filtered by prefix. It never reads the configuration directory.
func (m *Manager) ListNames(prefix string) ([]string, error) {
	return m.nics.Names(prefix)
}
