// Package cli provides the command-line interface for themer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/themer/internal/config"
	"github.com/jmylchreest/themer/internal/desktop"
	"github.com/jmylchreest/themer/internal/theme"
	"github.com/jmylchreest/themer/internal/version"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	verbose bool
	debug   bool
	root    string
}

// app is the state shared by all commands of one invocation.
type app struct {
	opts   globalOptions
	logger hclog.Logger
	cfg    *config.Config
	store  *theme.Store
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the themer command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "themer",
		Short: "Generate and manage desktop colour themes",
		Long: `themer derives a 16 colour terminal palette from an Xresources style colour
file, a sweyla.com theme id or an image, renders a template set with it into a
named theme and activates themes on the desktop.

Themes live in $XDG_CONFIG_HOME/themer (or ~/.config/themer). Template sets
live in the templates/ directory beneath it.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&a.opts.root, "root", "", "themer root directory (default $XDG_CONFIG_HOME/themer)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(a),
		newActivateCmd(a),
		newListCmd(a),
		newCurrentCmd(a),
		newDeleteCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)

	return rootCmd
}

// init configures logging and loads the application config.
func (a *app) init(stderr io.Writer) error {
	level := hclog.Warn
	switch {
	case a.opts.debug:
		level = hclog.Debug
	case a.opts.verbose:
		level = hclog.Info
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "themer",
		Level:  level,
		Output: stderr,
	})

	cfg, err := config.Load(a.opts.root)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.store = theme.NewStore(cfg.Root, a.logger.Named("store"))
	a.logger.Debug("loaded config", "root", cfg.Root)
	return nil
}

// activate makes name the current theme and applies it to the desktop.
func (a *app) activate(ctx context.Context, name string) error {
	if err := a.store.SetCurrent(name); err != nil {
		return err
	}
	colors, err := a.store.Colors(ctx, name)
	if err != nil {
		return err
	}
	activator := desktop.NewActivator(a.cfg.Desktop, a.logger.Named("desktop"))
	return activator.Activate(ctx, a.store.Path(name), colors)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		// Printing the version never needs the config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
