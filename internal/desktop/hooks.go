package desktop

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/config"
)

// Reloader runs the configured reload hooks.
type Reloader struct {
	Runner Runner

	// Running reports whether a process is running; ProcessRunning is used
	// when nil.
	Running func(name string) (bool, error)

	Logger hclog.Logger
}

// Run executes every hook whose process gate passes. A failing hook does not
// stop the others; all failures are returned together.
func (r *Reloader) Run(ctx context.Context, hooks []config.ReloadHook) error {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	running := r.Running
	if running == nil {
		running = ProcessRunning
	}
	runner := r.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	var errs []error
	for _, hook := range hooks {
		if len(hook.Command) == 0 {
			continue
		}
		if hook.Process != "" {
			ok, err := running(hook.Process)
			if err != nil {
				errs = append(errs, fmt.Errorf("hook %s: %w", hook.Name, err))
				continue
			}
			if !ok {
				logger.Debug("skipping hook, process not running", "hook", hook.Name, "process", hook.Process)
				continue
			}
		}

		logger.Info("running reload hook", "hook", hook.Name)
		if _, err := runner.Run(ctx, hook.Command[0], hook.Command[1:]...); err != nil {
			logger.Warn("reload hook failed", "hook", hook.Name, "error", err)
			errs = append(errs, fmt.Errorf("hook %s: %w", hook.Name, err))
		}
	}
	return errors.Join(errs...)
}
