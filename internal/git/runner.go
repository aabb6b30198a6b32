package git

import (
	"context"
	"os/exec"
)

// Runner executes a git subcommand in a working directory and returns its
// captured stdout. Abstracted so the scanner can be tested with a fake
// instead of spawning real subprocesses.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner runs git via os/exec.
type ExecRunner struct{}

// Run invokes git with the given arguments. All scanner invocations are
// read-only; --no-optional-locks avoids taking index.lock.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"--no-optional-locks"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir
	return cmd.Output()
}
