package sysconf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hostplan/hostplan/pkg/util"
)

const (
	// DefaultSshdConfigPath is where sshd reads its configuration.
	DefaultSshdConfigPath = "/etc/ssh/sshd_config"
	// DefaultSshdPort is reported when the file has no Port line.
	DefaultSshdPort = 22

	sshdUnit = "sshd"
)

// Sshd patches the sshd configuration file.
type Sshd struct {
	Path    string
	Control ServiceControl
}

// NewSshd creates a patcher over the default configuration path.
func NewSshd(control ServiceControl) *Sshd {
	return &Sshd{Path: DefaultSshdConfigPath, Control: control}
}

// Port returns the configured listening port. The first parseable Port
// line wins; a file without one reports DefaultSshdPort.
func (s *Sshd) Port() (int, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "Port ") {
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) < 2 {
			continue
		}
		if port, err := strconv.Atoi(fields[1]); err == nil {
			return port, nil
		}
	}
	return DefaultSshdPort, nil
}

// SetPort replaces the Port line and restarts sshd. Existing Port
// lines anywhere in the file are dropped and the new one is appended
// at the end; every other line is preserved in place.
func (s *Sshd) SetPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid sshd port %d", port)
	}

	drop := func(line string) bool { return strings.HasPrefix(line, "Port ") }
	if err := rewriteLines(s.Path, drop, []string{fmt.Sprintf("Port %d", port)}); err != nil {
		return err
	}

	if err := s.Control.Restart(sshdUnit); err != nil {
		return fmt.Errorf("restarting sshd: %w", err)
	}
	util.Infof("sshd port set to %d", port)
	return nil
}
