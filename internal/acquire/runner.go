package acquire

import (
	"context"
	"os/exec"
)

// CommandRunner runs an external tool to completion and returns its combined
// output.
type CommandRunner interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
