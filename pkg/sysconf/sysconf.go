// Package sysconf patches system configuration files line by line: the
// sshd listening port and the NTP server list. Each patcher rewrites
// its whole file and bounces the owning service through an injected
// control, so the file handling is testable without systemd.
package sysconf

import (
	"fmt"
	"os"
	"strings"
)

// ServiceControl is the slice of service behavior the patchers need.
type ServiceControl interface {
	Restart(unit string) error
	Stop(unit string) error
	Active(unit string) (bool, error)
}

// rewriteLines reads path, drops every line accepted by drop, appends
// the extra lines at the end, and writes the result back with the
// file's original permissions.
func rewriteLines(path string, drop func(string) bool, extra []string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var b strings.Builder
	if len(data) > 0 {
		for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			if drop(line) {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	for _, line := range extra {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
