package netplan

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hostplan/hostplan/pkg/util"
)

// CommandExecutor abstracts running external commands so the commit
// pipeline can be tested without a real netplan binary.
type CommandExecutor interface {
	RunCommand(name string, arg ...string) (string, error)
}

// ExecRunner is the os/exec-backed CommandExecutor.
type ExecRunner struct{}

// RunCommand runs a command and returns its combined output.
func (r *ExecRunner) RunCommand(name string, arg ...string) (string, error) {
	cmd := exec.Command(name, arg...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("command %s %v failed: %w, output: %s", name, arg, err, string(output))
	}
	return string(output), nil
}

// Committer writes a merged document back to the configuration
// directory and asks the OS to adopt it. The pipeline is an ordered
// sequence of independently failable steps with no rollback: a failure
// surfaces as a CommitError naming the step, and whatever the earlier
// steps wrote stays on disk. The next successful load+commit cycle
// repairs such intermediate states implicitly.
type Committer struct {
	Dir     string
	Staging string
	Runner  CommandExecutor
}

// NewCommitter creates a committer for the given configuration
// directory, staging through DefaultStagingDir and applying with the
// real netplan command.
func NewCommitter(dir string) *Committer {
	return &Committer{
		Dir:     dir,
		Staging: DefaultStagingDir,
		Runner:  &ExecRunner{},
	}
}

// Commit persists doc as the directory's single document file:
//
//  1. re-enumerate the directory; the primary filename is the first
//     enumerated file's name, or DefaultFileName when the directory is
//     empty;
//  2. serialize doc to a staging file (truncate-or-create);
//  3. copy the staging file over the primary (copy, not rename);
//  4. remove the staging file;
//  5. remove every other enumerated file;
//  6. run "netplan apply".
func (c *Committer) Commit(doc *Document) error {
	files, err := util.ListFiles(c.Dir)
	if err != nil {
		return util.NewCommitError("enumerate", c.Dir, err)
	}

	primary := DefaultFileName
	if len(files) > 0 {
		primary = files[0]
	}
	staged := filepath.Join(c.Staging, primary)
	target := filepath.Join(c.Dir, primary)

	data, err := doc.Marshal()
	if err != nil {
		return util.NewCommitError("serialize", target, err)
	}
	if err := os.WriteFile(staged, data, 0644); err != nil {
		return util.NewCommitError("stage", staged, err)
	}
	if err := util.CopyFile(staged, target); err != nil {
		return util.NewCommitError("promote", target, err)
	}
	if err := os.Remove(staged); err != nil {
		return util.NewCommitError("unstage", staged, err)
	}
	for _, name := range files {
		if name == primary {
			continue
		}
		path := filepath.Join(c.Dir, name)
		if err := os.Remove(path); err != nil {
			return util.NewCommitError("prune", path, err)
		}
	}

	util.WithOperation("commit").Debugf("wrote %s, applying", target)
	if _, err := c.Runner.RunCommand("netplan", "apply"); err != nil {
		return util.NewCommitError("apply", "", err)
	}
	util.Infof("committed netplan configuration to %s", target)
	return nil
}
