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

const fullDoc = `network:
  version: 2
  renderer: networkd
  ethernets:
    eno3:
      addresses:
        - 192.168.0.205/24
        - 192.168.4.7/24
      gateway4: 192.168.0.1
      nameservers:
        addresses:
          - 164.124.101.2
        search:
          - corp.example
      optional: true
    eth0:
      dhcp4: true
  bridges:
    br0:
      interfaces:
        - eno3
      addresses:
        - 10.0.0.1/24
      nameservers:
        addresses:
          - 8.8.8.8
`

func TestParse_FullDocument(t *testing.T) {
	doc, err := Parse([]byte(fullDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Version == nil || *doc.Version != 2 {
		t.Errorf("Version = %v, want 2", doc.Version)
	}
	if doc.Renderer == nil || *doc.Renderer != "networkd" {
		t.Errorf("Renderer = %v, want networkd", doc.Renderer)
	}
	if len(doc.Interfaces) != 2 {
		t.Fatalf("got %d interfaces, want 2", len(doc.Interfaces))
	}

	eno3, ok := doc.Interface("eno3")
	if !ok {
		t.Fatal("eno3 not parsed")
	}
	wantAddrs := []string{"192.168.0.205/24", "192.168.4.7/24"}
	if !reflect.DeepEqual(eno3.Addresses, wantAddrs) {
		t.Errorf("eno3 addresses = %v, want %v", eno3.Addresses, wantAddrs)
	}
	if eno3.Gateway4 == nil || *eno3.Gateway4 != "192.168.0.1" {
		t.Errorf("eno3 gateway4 = %v, want 192.168.0.1", eno3.Gateway4)
	}
	if got := eno3.Nameservers["addresses"]; !reflect.DeepEqual(got, []string{"164.124.101.2"}) {
		t.Errorf("eno3 nameserver addresses = %v", got)
	}
	if got := eno3.Nameservers["search"]; !reflect.DeepEqual(got, []string{"corp.example"}) {
		t.Errorf("eno3 nameserver search = %v", got)
	}
	if eno3.Optional == nil || !*eno3.Optional {
		t.Errorf("eno3 optional = %v, want true", eno3.Optional)
	}
	if eno3.DHCP4 != nil {
		t.Errorf("eno3 dhcp4 = %v, want unset", eno3.DHCP4)
	}

	eth0, _ := doc.Interface("eth0")
	if eth0.DHCP4 == nil || !*eth0.DHCP4 {
		t.Errorf("eth0 dhcp4 = %v, want true", eth0.DHCP4)
	}
	if eth0.Addresses != nil {
		t.Errorf("eth0 addresses = %v, want unset", eth0.Addresses)
	}

	br0, ok := doc.Bridges["br0"]
	if !ok {
		t.Fatal("br0 not parsed")
	}
	if !reflect.DeepEqual(br0.Interfaces, []string{"eno3"}) {
		t.Errorf("br0 interfaces = %v", br0.Interfaces)
	}
	if !reflect.DeepEqual(br0.Nameservers.Addresses, []string{"8.8.8.8"}) {
		t.Errorf("br0 nameserver addresses = %v", br0.Nameservers.Addresses)
	}
}

func TestParse_AbsentFieldsStayAbsent(t *testing.T) {
	doc, err := Parse([]byte("network:\n  ethernets:\n    eth0: {}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Version != nil {
		t.Errorf("Version = %v, want nil", doc.Version)
	}
	if doc.Renderer != nil {
		t.Errorf("Renderer = %v, want nil", doc.Renderer)
	}
	if doc.Bridges != nil {
		t.Errorf("Bridges = %v, want nil", doc.Bridges)
	}

	eth0, _ := doc.Interface("eth0")
	if eth0.Addresses != nil || eth0.DHCP4 != nil || eth0.Gateway4 != nil ||
		eth0.Nameservers != nil || eth0.Optional != nil {
		t.Errorf("absent fields must parse as nil, got %+v", eth0)
	}
}

func TestParse_EmptyBridgeMappingIsPresent(t *testing.T) {
	// "bridges: {}" is present-but-empty, distinct from no bridges key
	// at all. The distinction drives the merge's no-upgrade rule.
	doc, err := Parse([]byte("network:\n  ethernets: {}\n  bridges: {}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Bridges == nil {
		t.Error("bridges: {} should parse as a non-nil empty map")
	}
	if len(doc.Bridges) != 0 {
		t.Errorf("bridges = %v, want empty", doc.Bridges)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"bad syntax", "network:\n\tethernets: {}\n"},
		{"root not mapping", "- network\n"},
		{"unknown top-level key", "network:\n  ethernets: {}\nnetwerk: {}\n"},
		{"missing network key", "version: 2\n"},
		{"network not mapping", "network: 42\n"},
		{"missing ethernets", "network:\n  version: 2\n"},
		{"ethernets not mapping", "network:\n  ethernets: 7\n"},
		{"duplicate interface", "network:\n  ethernets:\n    eth0: {}\n    eth0: {}\n"},
		{"version wrong type", "network:\n  version: two\n  ethernets: {}\n"},
		{"bridges wrong shape", "network:\n  ethernets: {}\n  bridges: [br0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.in)
			}
			if !errors.Is(err, util.ErrMalformedConfig) {
				t.Errorf("error %v should unwrap to ErrMalformedConfig", err)
			}
		})
	}
}

func TestParse_UnknownKeysInsideNetworkIgnored(t *testing.T) {
	// Only the top level is a closed schema; unmanaged device classes
	// inside the network block pass through unparsed.
	doc, err := Parse([]byte("network:\n  version: 2\n  ethernets:\n    eth0: {}\n  wifis:\n    wlan0: {}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Interfaces) != 1 {
		t.Errorf("got %d interfaces, want 1", len(doc.Interfaces))
	}
}

func TestParse_UnknownInterfaceFieldsIgnored(t *testing.T) {
	doc, err := Parse([]byte("network:\n  ethernets:\n    eth0:\n      mtu: 9000\n      dhcp4: false\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	eth0, _ := doc.Interface("eth0")
	if eth0.DHCP4 == nil || *eth0.DHCP4 {
		t.Errorf("dhcp4 = %v, want false", eth0.DHCP4)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01-netcfg.yaml")
	if err := os.WriteFile(path, []byte(fullDoc), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(doc.Interfaces) != 2 {
		t.Errorf("got %d interfaces, want 2", len(doc.Interfaces))
	}
}

func TestParseFile_ErrorNamesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "50-bad.yaml")
	if err := os.WriteFile(path, []byte("nonsense: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	if err == nil {
		t.Fatal("ParseFile() should fail")
	}
	if !strings.Contains(err.Error(), "50-bad.yaml") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}
}

// ============================================================================
// Serialization
// ============================================================================

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := Parse([]byte(fullDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if !reflect.DeepEqual(doc, again) {
		t.Errorf("round trip mismatch:\nfirst:  %+v\nsecond: %+v", doc, again)
	}
}

func TestMarshal_OmitsUnsetFields(t *testing.T) {
	doc := &Document{
		Interfaces: []InterfaceEntry{
			{Name: "eth0", Config: InterfaceConfig{DHCP4: boolPtr(true)}},
		},
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, absent := range []string{"version", "renderer", "addresses", "gateway4", "nameservers", "optional", "bridges"} {
		if strings.Contains(out, absent) {
			t.Errorf("unset field %q should be omitted from output:\n%s", absent, out)
		}
	}
	if !strings.Contains(out, "dhcp4: true") {
		t.Errorf("set field missing from output:\n%s", out)
	}
	if strings.Contains(out, "null") {
		t.Errorf("unset fields must never serialize as null:\n%s", out)
	}
}

func TestMarshal_EmptyCollectionsOmitted(t *testing.T) {
	// An address list emptied by deletion serializes the same as an
	// unset one: the key disappears rather than rendering as [].
	doc := &Document{
		Interfaces: []InterfaceEntry{
			{Name: "eth0", Config: InterfaceConfig{Addresses: []string{}}},
		},
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "addresses") {
		t.Errorf("empty address list should be omitted:\n%s", data)
	}
}

func TestMarshal_AllUnsetInterface(t *testing.T) {
	doc := &Document{
		Interfaces: []InterfaceEntry{{Name: "eno1", Config: InterfaceConfig{}}},
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "eno1: {}") {
		t.Errorf("all-unset interface should serialize as an empty mapping:\n%s", data)
	}
}

func TestMarshal_StoredOrderEmitted(t *testing.T) {
	doc := &Document{}
	doc.SetInterface("zzz", InterfaceConfig{DHCP4: boolPtr(true)})
	doc.SetInterface("aaa", InterfaceConfig{DHCP4: boolPtr(true)})

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	aaa := strings.Index(out, "aaa:")
	zzz := strings.Index(out, "zzz:")
	if aaa < 0 || zzz < 0 {
		t.Fatalf("both interfaces should appear in output:\n%s", out)
	}
	if aaa > zzz {
		t.Errorf("interfaces should serialize in sorted order:\n%s", out)
	}
}

func TestMarshal_StableForUntouchedDocument(t *testing.T) {
	doc, err := Parse([]byte(fullDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	first, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(first) != string(second) {
		t.Error("re-serializing an untouched document should be byte-stable")
	}
}

func TestString(t *testing.T) {
	doc := &Document{
		Version:    intPtr(2),
		Interfaces: []InterfaceEntry{{Name: "eth0", Config: InterfaceConfig{}}},
	}
	if s := doc.String(); !strings.Contains(s, "version: 2") {
		t.Errorf("String() = %q, want the serialized document", s)
	}
}
