//go:build integration || e2e

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/nic"
)

// BaselineYAML is a minimal complete netplan document used to seed test
// configuration directories.
const BaselineYAML = `network:
  version: 2
  renderer: networkd
  ethernets:
    eth0:
      dhcp4: true
`

// WriteConfig writes one YAML document into a configuration directory.
func WriteConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config %s: %v", name, err)
	}
	return path
}

// SeedBaseline creates a temp configuration directory holding BaselineYAML
// under the default document name.
func SeedBaseline(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteConfig(t, dir, netplan.DefaultFileName, BaselineYAML)
	return dir
}

// NopRunner satisfies netplan.CommandExecutor without executing anything,
// recording each command instead. Document-pipeline tests use it to run
// full commits on hosts where invoking netplan apply is not acceptable.
type NopRunner struct {
	Commands [][]string
}

func (r *NopRunner) RunCommand(name string, arg ...string) (string, error) {
	r.Commands = append(r.Commands, append([]string{name}, arg...))
	return "", nil
}

// SandboxManager returns a netplan.Manager over a seeded temp directory.
// Commits stage into a second temp directory and the apply step is
// recorded on the returned NopRunner rather than executed.
func SandboxManager(t *testing.T) (*netplan.Manager, string, *NopRunner) {
	t.Helper()
	dir := SeedBaseline(t)
	runner := &NopRunner{}
	committer := &netplan.Committer{Dir: dir, Staging: t.TempDir(), Runner: runner}
	return netplan.NewManagerWithDeps(dir, nic.NewManager(), committer), dir, runner
}

// LiveManager returns a netplan.Manager over a seeded temp directory
// whose commits run the real netplan apply. Callers must gate with
// SkipIfNoLiveE2E.
func LiveManager(t *testing.T) (*netplan.Manager, string) {
	t.Helper()
	dir := SeedBaseline(t)
	committer := &netplan.Committer{Dir: dir, Staging: t.TempDir(), Runner: &netplan.ExecRunner{}}
	return netplan.NewManagerWithDeps(dir, nic.NewManager(), committer), dir
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// Must is a generic helper that calls t.Fatal if err is not nil and returns the value.
func Must[T any](t *testing.T, val T, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return val
}
