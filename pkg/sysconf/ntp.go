package sysconf

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hostplan/hostplan/pkg/util"
)

const (
	// DefaultNtpConfPath is where the NTP daemon reads its server list.
	DefaultNtpConfPath = "/etc/ntp.conf"

	ntpUnit = "ntp"
)

var ntpServerRe = regexp.MustCompile(`server\s+([a-z0-9.]+)\s+iburst`)

// Ntp patches the NTP daemon's configuration file.
type Ntp struct {
	Path    string
	Control ServiceControl
}

// NewNtp creates a patcher over the default configuration path.
func NewNtp(control ServiceControl) *Ntp {
	return &Ntp{Path: DefaultNtpConfPath, Control: control}
}

// Servers returns the configured server names in file order; nil when
// none are configured.
func (n *Ntp) Servers() ([]string, error) {
	data, err := os.ReadFile(n.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", n.Path, err)
	}
	var servers []string
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "server ") {
			continue
		}
		if m := ntpServerRe.FindStringSubmatch(line); m != nil {
			servers = append(servers, m[1])
		}
	}
	return servers, nil
}

// SetServers replaces every server line with the given names and
// restarts the service. Each server is written as "server <name>
// iburst"; every non-server line is preserved in place.
func (n *Ntp) SetServers(servers []string) error {
	drop := func(line string) bool { return strings.HasPrefix(line, "server ") }
	extra := make([]string, 0, len(servers))
	for _, server := range servers {
		extra = append(extra, fmt.Sprintf("server %s iburst", server))
	}
	if err := rewriteLines(n.Path, drop, extra); err != nil {
		return err
	}

	if err := n.Control.Restart(ntpUnit); err != nil {
		return fmt.Errorf("restarting ntp: %w", err)
	}
	util.Infof("ntp servers set to %s", strings.Join(servers, ", "))
	return nil
}

// Active reports whether the NTP service is running; control failures
// read as inactive.
func (n *Ntp) Active() bool {
	active, err := n.Control.Active(ntpUnit)
	if err != nil {
		return false
	}
	return active
}

// Enable bounces the NTP service so the current configuration takes
// effect.
func (n *Ntp) Enable() error {
	return n.Control.Restart(ntpUnit)
}

// Disable stops the NTP service.
func (n *Ntp) Disable() error {
	return n.Control.Stop(ntpUnit)
}
