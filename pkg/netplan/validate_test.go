package netplan

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hostplan/hostplan/pkg/util"
)

func TestValidateEdit_Valid(t *testing.T) {
	doc := &Document{}
	edit := &InterfaceView{
		Addresses:   []string{"192.168.0.205/24"},
		DHCP4:       boolPtr(false),
		Gateway4:    strPtr("192.168.0.1"),
		Nameservers: []string{"164.124.101.2", "8.8.8.8"},
	}
	if err := ValidateEdit(doc, "eno3", edit); err != nil {
		t.Errorf("ValidateEdit() error = %v, want nil", err)
	}
}

func TestValidateEdit_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		edit *InterfaceView
		want error
	}{
		{
			name: "address without prefix",
			doc:  &Document{},
			edit: &InterfaceView{Addresses: []string{"192.168.0.205"}},
			want: util.ErrInvalidAddress,
		},
		{
			name: "address not an IP",
			doc:  &Document{},
			edit: &InterfaceView{Addresses: []string{"not-an-ip/24"}},
			want: util.ErrInvalidAddress,
		},
		{
			name: "gateway not an IP",
			doc:  &Document{},
			edit: &InterfaceView{Gateway4: strPtr("192.168.0.1/24")},
			want: util.ErrInvalidAddress,
		},
		{
			name: "gateway already held elsewhere",
			doc: &Document{Interfaces: []InterfaceEntry{
				{Name: "eth0", Config: InterfaceConfig{Gateway4: strPtr("10.0.0.1")}},
			}},
			edit: &InterfaceView{Gateway4: strPtr("192.168.0.1")},
			want: util.ErrGatewayConflict,
		},
		{
			name: "nameserver not an IP",
			doc:  &Document{},
			edit: &InterfaceView{Nameservers: []string{"dns.example"}},
			want: util.ErrInvalidAddress,
		},
		{
			name: "dhcp4 with static addresses",
			doc:  &Document{},
			edit: &InterfaceView{DHCP4: boolPtr(true), Addresses: []string{"10.0.0.1/24"}},
			want: util.ErrAddressModeConflict,
		},
		{
			name: "dhcp4 with nameservers",
			doc:  &Document{},
			edit: &InterfaceView{DHCP4: boolPtr(true), Nameservers: []string{"8.8.8.8"}},
			want: util.ErrAddressModeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdit(tt.doc, "eno3", tt.edit)
			if err == nil {
				t.Fatal("ValidateEdit() = nil, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateEdit() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateEdit_GatewayOnSameInterfaceAllowed(t *testing.T) {
	// Replacing your own gateway is not a conflict
	doc := &Document{Interfaces: []InterfaceEntry{
		{Name: "eno3", Config: InterfaceConfig{Gateway4: strPtr("192.168.0.1")}},
	}}
	edit := &InterfaceView{Gateway4: strPtr("192.168.0.254")}
	if err := ValidateEdit(doc, "eno3", edit); err != nil {
		t.Errorf("ValidateEdit() error = %v, want nil", err)
	}
}

func TestValidateEdit_EmptyGatewayElsewhereAllowed(t *testing.T) {
	// A present-but-empty gateway does not hold the slot
	doc := &Document{Interfaces: []InterfaceEntry{
		{Name: "eth0", Config: InterfaceConfig{Gateway4: strPtr("")}},
	}}
	edit := &InterfaceView{Gateway4: strPtr("192.168.0.1")}
	if err := ValidateEdit(doc, "eno3", edit); err != nil {
		t.Errorf("ValidateEdit() error = %v, want nil", err)
	}
}

func TestValidateEdit_DHCPFalseWithStaticAllowed(t *testing.T) {
	doc := &Document{}
	edit := &InterfaceView{DHCP4: boolPtr(false), Addresses: []string{"10.0.0.1/24"}}
	if err := ValidateEdit(doc, "eno3", edit); err != nil {
		t.Errorf("ValidateEdit() error = %v, want nil", err)
	}
}

func TestValidateEdit_DoesNotMutate(t *testing.T) {
	doc := &Document{Interfaces: []InterfaceEntry{
		{Name: "eth0", Config: InterfaceConfig{Gateway4: strPtr("10.0.0.1")}},
	}}
	before := *doc
	beforeEntries := make([]InterfaceEntry, len(doc.Interfaces))
	copy(beforeEntries, doc.Interfaces)

	_ = ValidateEdit(doc, "eno3", &InterfaceView{Gateway4: strPtr("192.168.0.1")})

	if !reflect.DeepEqual(doc.Interfaces, beforeEntries) || doc.Version != before.Version {
		t.Error("ValidateEdit must not modify the document")
	}
}

func TestCheck_CleanDocument(t *testing.T) {
	doc := &Document{
		Interfaces: []InterfaceEntry{
			{Name: "eno3", Config: InterfaceConfig{
				Addresses: []string{"192.168.0.205/24"},
				Gateway4:  strPtr("192.168.0.1"),
				Nameservers: map[string][]string{
					nsAddresses: {"164.124.101.2"},
					nsSearch:    {},
				},
			}},
			{Name: "eth0", Config: InterfaceConfig{DHCP4: boolPtr(true)}},
		},
		Bridges: map[string]BridgeConfig{
			"br0": {Interfaces: []string{"eth1"}, Addresses: []string{"10.0.0.1/24"}},
		},
	}
	if err := Check(doc); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestCheck_ReportsEveryProblem(t *testing.T) {
	doc := &Document{
		Interfaces: []InterfaceEntry{
			{Name: "eno3", Config: InterfaceConfig{
				Addresses: []string{"bogus"},
				Gateway4:  strPtr("10.0.0.1"),
			}},
			{Name: "eth0", Config: InterfaceConfig{Gateway4: strPtr("10.0.0.2")}},
			{Name: "eth1", Config: InterfaceConfig{
				DHCP4:     boolPtr(true),
				Addresses: []string{"10.0.1.1/24"},
			}},
		},
		Bridges: map[string]BridgeConfig{
			"br0": {Addresses: []string{"also-bogus"}},
		},
	}

	err := Check(doc)
	if err == nil {
		t.Fatal("Check() = nil, want error")
	}
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Errorf("Check() = %v, want ErrValidationFailed", err)
	}

	var verr *util.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Check() error type = %T", err)
	}
	if len(verr.Errors) != 4 {
		t.Errorf("got %d problems, want 4: %v", len(verr.Errors), verr.Errors)
	}
	msg := err.Error()
	for _, fragment := range []string{"bogus", "both configure a gateway", "dhcp4", "bridge br0"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("error text %q missing %q", msg, fragment)
		}
	}
}
