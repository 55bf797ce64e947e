//go:build e2e

package e2e_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hostplan/hostplan/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.InitReport()

	code := m.Run()

	reportPath := filepath.Join(testutil.ProjectRoot(), "test", "e2e", ".generated", "e2e-report.md")
	if err := testutil.WriteReport(reportPath); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: failed to write E2E report: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "E2E report written to %s\n", reportPath)
	}
	os.Exit(code)
}
