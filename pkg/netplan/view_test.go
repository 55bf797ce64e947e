package netplan

import (
	"reflect"
	"testing"
)

func TestViewConfigRoundTrip(t *testing.T) {
	view := InterfaceView{
		Addresses:   []string{"192.168.0.205/24"},
		DHCP4:       boolPtr(false),
		Gateway4:    strPtr("192.168.0.1"),
		Nameservers: []string{"164.124.101.2"},
	}

	cfg := view.Config()

	if !reflect.DeepEqual(cfg.Nameservers[nsAddresses], []string{"164.124.101.2"}) {
		t.Errorf("addresses role = %v", cfg.Nameservers[nsAddresses])
	}
	search, ok := cfg.Nameservers[nsSearch]
	if !ok || len(search) != 0 {
		t.Errorf("search role should be present and empty, got %v (present=%v)", search, ok)
	}

	back := cfg.View()
	if !reflect.DeepEqual(back, view) {
		t.Errorf("round trip = %+v, want %+v", back, view)
	}
}

func TestViewDropsSearchDomains(t *testing.T) {
	cfg := InterfaceConfig{
		Nameservers: map[string][]string{
			nsAddresses: {"8.8.8.8"},
			nsSearch:    {"corp.example"},
		},
	}

	view := cfg.View()
	if !reflect.DeepEqual(view.Nameservers, []string{"8.8.8.8"}) {
		t.Errorf("view nameservers = %v, want only the addresses role", view.Nameservers)
	}
}

func TestViewAbsenceIsPreserved(t *testing.T) {
	view := (&InterfaceConfig{}).View()
	if view.Addresses != nil || view.DHCP4 != nil || view.Gateway4 != nil || view.Nameservers != nil {
		t.Errorf("all-unset config should view as all-unset, got %+v", view)
	}

	cfg := (&InterfaceView{}).Config()
	if cfg.Nameservers != nil {
		t.Errorf("unset nameserver list should not create a block, got %v", cfg.Nameservers)
	}
}

func TestViewConfigCopiesSlices(t *testing.T) {
	view := InterfaceView{Addresses: []string{"10.0.0.1/24"}}
	cfg := view.Config()
	cfg.Addresses[0] = "changed"
	if view.Addresses[0] != "10.0.0.1/24" {
		t.Error("Config() should not alias the view's slices")
	}
}
