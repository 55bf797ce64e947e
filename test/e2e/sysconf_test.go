//go:build e2e

package e2e_test

import (
	"os"
	"testing"

	"github.com/hostplan/hostplan/internal/testutil"
	"github.com/hostplan/hostplan/pkg/sysconf"
)

func TestE2E_SshdPortRead(t *testing.T) {
	testutil.Track(t, "Sysconf", "sshd")

	if _, err := os.Stat(sysconf.DefaultSshdConfigPath); err != nil {
		t.Skipf("no sshd config on this host: %v", err)
	}

	sshd := sysconf.NewSshd(nil)
	port, err := sshd.Port()
	testutil.AssertNoError(t, err, "reading sshd port")
	if port < 1 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
	t.Logf("sshd port: %d", port)
}

func TestE2E_NtpServersRead(t *testing.T) {
	testutil.Track(t, "Sysconf", "ntp")

	if _, err := os.Stat(sysconf.DefaultNtpConfPath); err != nil {
		t.Skipf("no ntp config on this host: %v", err)
	}

	ntp := sysconf.NewNtp(nil)
	servers, err := ntp.Servers()
	testutil.AssertNoError(t, err, "reading ntp servers")
	t.Logf("ntp servers: %v", servers)
}
