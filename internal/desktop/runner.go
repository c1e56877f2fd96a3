// Package desktop applies an activated theme to the running session:
// wallpaper, icon colours and reload hooks.
package desktop

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mitchellh/go-ps"
)

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args and returns the combined output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 - commands come from the user's themer config
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w (output: %s)", name, err, string(out))
	}
	return out, nil
}

// ProcessRunning reports whether a process with the given executable name
// is running.
func ProcessRunning(name string) (bool, error) {
	processes, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("failed to get process list: %w", err)
	}

	for _, p := range processes {
		if p.Executable() == name {
			return true, nil
		}
	}
	return false, nil
}
