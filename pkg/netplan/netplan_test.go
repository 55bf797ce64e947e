package netplan

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hostplan/hostplan/pkg/util"
)

type fakeNics struct {
	names     []string
	namesErr  error
	resetErr  error
	deleteErr error
	resets    []string
	deleted   [][2]string
}

func (f *fakeNics) Names(prefix string) ([]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	var out []string
	for _, n := range f.names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNics) Reset(name string) error {
	f.resets = append(f.resets, name)
	return f.resetErr
}

func (f *fakeNics) DeleteAddress(name, address string) error {
	f.deleted = append(f.deleted, [2]string{name, address})
	return f.deleteErr
}

func newTestManager(t *testing.T, nics *fakeNics) (*Manager, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	dir := t.TempDir()
	committer := &Committer{Dir: dir, Staging: t.TempDir(), Runner: runner}
	return NewManagerWithDeps(dir, nics, committer), runner
}

func readPrimary(t *testing.T, m *Manager) string {
	t.Helper()
	names := dirNames(t, m.dir)
	if len(names) != 1 {
		t.Fatalf("directory holds %v, want exactly one file", names)
	}
	data, err := os.ReadFile(filepath.Join(m.dir, names[0]))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestManagerInit_UnknownHostInterface(t *testing.T) {
	nics := &fakeNics{names: []string{"eth0"}}
	m, runner := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)
	before := readPrimary(t, m)

	err := m.Init("eno9")
	if !errors.Is(err, util.ErrInterfaceNotFound) {
		t.Errorf("Init() = %v, want ErrInterfaceNotFound", err)
	}
	if len(runner.commands) != 0 {
		t.Error("nothing should be applied for an unknown interface")
	}
	if got := readPrimary(t, m); got != before {
		t.Error("configuration must be untouched")
	}
}

func TestManagerInit_Success(t *testing.T) {
	nics := &fakeNics{names: []string{"eno3", "eth0"}}
	m, runner := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	if err := m.Init("eno3"); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	content := readPrimary(t, m)
	if !strings.Contains(content, "eno3: {}") {
		t.Errorf("eno3 should be reset to empty on disk:\n%s", content)
	}
	if !reflect.DeepEqual(nics.resets, []string{"eno3"}) {
		t.Errorf("live resets = %v, want [eno3]", nics.resets)
	}
	if len(runner.commands) != 1 {
		t.Errorf("apply should run once, ran %d times", len(runner.commands))
	}
}

func TestManagerInit_InsertsUnconfiguredInterface(t *testing.T) {
	// Present on the host but absent from the documents: init adds it
	nics := &fakeNics{names: []string{"eno4", "eth0"}}
	m, _ := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml", "network:\n  ethernets:\n    eth0:\n      dhcp4: true\n")

	if err := m.Init("eno4"); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	doc, err := Load(m.dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Interface("eno4"); !ok {
		t.Error("eno4 should be inserted by init")
	}
}

func TestManagerInit_LiveResetFailureIsHard(t *testing.T) {
	nics := &fakeNics{names: []string{"eno3"}, resetErr: errors.New("permission denied")}
	m, runner := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	err := m.Init("eno3")
	if err == nil {
		t.Fatal("Init() = nil, want error from the live reset")
	}
	if !strings.Contains(err.Error(), "eno3") {
		t.Errorf("error %q should name the interface", err)
	}
	// The configuration commit happened before the reset failed
	if len(runner.commands) != 1 {
		t.Error("commit precedes the live reset")
	}
}

func TestManagerSet_Success(t *testing.T) {
	m, runner := newTestManager(t, &fakeNics{})
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	edit := &InterfaceView{
		Addresses:   []string{"10.1.2.3/24"},
		Nameservers: []string{"8.8.8.8"},
	}
	if err := m.Set("eth0", edit); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := m.Get("eth0")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Addresses, edit.Addresses) {
		t.Errorf("addresses = %v, want %v", got.Addresses, edit.Addresses)
	}
	if got.DHCP4 != nil {
		t.Error("set is wholesale: the old dhcp4 flag must not survive")
	}
	if len(runner.commands) != 1 {
		t.Error("apply should run once")
	}
}

func TestManagerSet_ValidationFailureNoWrite(t *testing.T) {
	m, runner := newTestManager(t, &fakeNics{})
	writeConfig(t, m.dir, "01-netcfg.yaml",
		"network:\n  ethernets:\n    eth0:\n      gateway4: 10.0.0.1\n    eno3: {}\n")
	before := readPrimary(t, m)

	err := m.Set("eno3", &InterfaceView{Gateway4: strPtr("192.168.0.1")})
	if !errors.Is(err, util.ErrGatewayConflict) {
		t.Errorf("Set() = %v, want ErrGatewayConflict", err)
	}
	if got := readPrimary(t, m); got != before {
		t.Error("validation failure must not write anything")
	}
	if len(runner.commands) != 0 {
		t.Error("validation failure must not apply anything")
	}
}

func TestManagerSet_EmptyDirectory(t *testing.T) {
	m, _ := newTestManager(t, &fakeNics{})
	err := m.Set("eth0", &InterfaceView{})
	if !errors.Is(err, util.ErrConfigNotFound) {
		t.Errorf("Set() = %v, want ErrConfigNotFound", err)
	}
}

func TestManagerGet(t *testing.T) {
	m, _ := newTestManager(t, &fakeNics{})
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	view, err := m.Get("eno3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view == nil {
		t.Fatal("Get() = nil for a configured interface")
	}
	if !reflect.DeepEqual(view.Addresses, []string{"192.168.0.205/24", "192.168.4.7/24"}) {
		t.Errorf("addresses = %v", view.Addresses)
	}
	if !reflect.DeepEqual(view.Nameservers, []string{"164.124.101.2"}) {
		t.Errorf("nameservers = %v, want the addresses role only", view.Nameservers)
	}

	// Unconfigured name: no view, no error
	view, err = m.Get("eno9")
	if err != nil {
		t.Errorf("Get() error = %v, want nil", err)
	}
	if view != nil {
		t.Errorf("Get() = %+v, want nil for an unconfigured interface", view)
	}
}

func TestManagerGetAll(t *testing.T) {
	m, _ := newTestManager(t, &fakeNics{})
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	settings, err := m.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	var names []string
	for _, s := range settings {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, []string{"eno3", "eth0"}) {
		t.Errorf("names = %v, want [eno3 eth0]", names)
	}
}

func TestManagerDelete_EndToEnd(t *testing.T) {
	nics := &fakeNics{names: []string{"eth0"}}
	m, _ := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml",
		"network:\n  ethernets:\n    eth0:\n      addresses:\n        - 192.168.1.5/24\n      gateway4: 192.168.1.1\n")

	err := m.Delete("eth0", &InterfaceView{
		Addresses: []string{"192.168.1.5/24"},
		Gateway4:  strPtr("192.168.1.1"),
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The emptied keys are omitted from the serialized primary, and the
	// interface entry itself survives
	content := readPrimary(t, m)
	if strings.Contains(content, "addresses") || strings.Contains(content, "gateway4") {
		t.Errorf("emptied keys should be omitted:\n%s", content)
	}
	if !strings.Contains(content, "eth0") {
		t.Errorf("eth0 entry should survive:\n%s", content)
	}

	doc, err := Load(m.dir)
	if err != nil {
		t.Fatal(err)
	}
	eth0, ok := doc.Interface("eth0")
	if !ok {
		t.Fatal("eth0 missing after delete")
	}
	if eth0.Addresses != nil || eth0.Gateway4 != nil {
		t.Errorf("reloaded eth0 = %+v, want all-unset", eth0)
	}

	// Each removed address is also removed from the live interface
	want := [][2]string{{"eth0", "192.168.1.5/24"}}
	if !reflect.DeepEqual(nics.deleted, want) {
		t.Errorf("live removals = %v, want %v", nics.deleted, want)
	}
}

func TestManagerDelete_LiveRemovalFailureIgnored(t *testing.T) {
	nics := &fakeNics{deleteErr: errors.New("no such address")}
	m, runner := newTestManager(t, nics)
	writeConfig(t, m.dir, "01-netcfg.yaml",
		"network:\n  ethernets:\n    eth0:\n      addresses: [10.0.0.1/24]\n")

	err := m.Delete("eth0", &InterfaceView{Addresses: []string{"10.0.0.1/24"}})
	if err != nil {
		t.Errorf("Delete() error = %v, live removal failures are ignored", err)
	}
	if len(runner.commands) != 1 {
		t.Error("the commit should have happened regardless")
	}
}

func TestManagerDelete_UnknownInterface(t *testing.T) {
	m, runner := newTestManager(t, &fakeNics{})
	writeConfig(t, m.dir, "01-netcfg.yaml", fullDoc)

	err := m.Delete("eth9", &InterfaceView{})
	if !errors.Is(err, util.ErrInterfaceNotFound) {
		t.Errorf("Delete() = %v, want ErrInterfaceNotFound", err)
	}
	if len(runner.commands) != 0 {
		t.Error("nothing should be applied for an unknown interface")
	}
}

func TestManagerListNames(t *testing.T) {
	nics := &fakeNics{names: []string{"eno3", "eno4", "eth0"}}
	// Empty config dir on purpose: listing never reads it
	m, _ := newTestManager(t, nics)

	all, err := m.ListNames("")
	if err != nil {
		t.Fatalf("ListNames() error = %v", err)
	}
	if !reflect.DeepEqual(all, []string{"eno3", "eno4", "eth0"}) {
		t.Errorf("ListNames(\"\") = %v", all)
	}

	eno, err := m.ListNames("eno")
	if err != nil {
		t.Fatalf("ListNames() error = %v", err)
	}
	if !reflect.DeepEqual(eno, []string{"eno3", "eno4"}) {
		t.Errorf("ListNames(\"eno\") = %v", eno)
	}
}
