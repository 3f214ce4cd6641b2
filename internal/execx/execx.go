package execx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	RunIn(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	LookPath(file string) (string, error)
}

type OSRunner struct{}

// Run executes the tool and returns stdout. On failure the error carries
// the tool's stderr verbatim; operators need the exact output to debug.
// Context cancellation kills the child process.
func (r OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.RunIn(ctx, "", name, args...)
}

// RunIn is Run with an explicit working directory. Empty dir inherits the
// caller's.
func (OSRunner) RunIn(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s %v failed: %w: %s", name, args, err, stderr.String())
		}
		return stdout.Bytes(), fmt.Errorf("%s %v failed: %w", name, args, err)
	}
	return stdout.Bytes(), nil
}

func (OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
