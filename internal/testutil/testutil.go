//go:build integration || e2e

// Package testutil provides test helpers for integration and e2e tests.
package testutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// SkipIfNotRoot skips the test unless it runs with root privileges.
// Live interface resets and netplan apply both need them.
func SkipIfNotRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("requires root privileges")
	}
}

// SkipIfNoNetplan skips the test when the netplan binary is not installed.
func SkipIfNoNetplan(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("netplan"); err != nil {
		t.Skip("netplan binary not found in PATH")
	}
}

// SkipIfNoSystemd skips the test when the host is not running systemd.
func SkipIfNoSystemd(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/run/systemd/system"); err != nil {
		t.Skip("host is not running systemd")
	}
}

// SkipIfNoLiveE2E gates tests that mutate host network state. They only
// run when HOSTPLAN_E2E=1 is set and the host has both root privileges
// and the netplan binary.
func SkipIfNoLiveE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("HOSTPLAN_E2E") != "1" {
		t.Skip("live e2e disabled: set HOSTPLAN_E2E=1 to run tests that touch host state")
	}
	SkipIfNotRoot(t)
	SkipIfNoNetplan(t)
}

// ProjectRoot returns the absolute path to the project root.
func ProjectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	dir := filepath.Dir(thisFile)
	return filepath.Join(dir, "..", "..")
}

// Context returns a context with a reasonable timeout for tests.
// The cancel function is registered via t.Cleanup.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ContextWithCancel returns a context with cancel function.
func ContextWithCancel() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// MustEnv returns the value of an environment variable or fails the test.
func MustEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Fatalf("required environment variable %s not set", key)
	}
	return v
}
