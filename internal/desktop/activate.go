package desktop

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
	"github.com/jmylchreest/themer/internal/config"
)

// Activator applies a theme to the desktop session.
type Activator struct {
	Config   config.DesktopConfig
	Runner   Runner
	Reloader *Reloader
	Logger   hclog.Logger
}

// NewActivator creates an activator running real commands.
func NewActivator(cfg config.DesktopConfig, logger hclog.Logger) *Activator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	runner := ExecRunner{}
	return &Activator{
		Config:   cfg,
		Runner:   runner,
		Reloader: &Reloader{Runner: runner, Logger: logger.Named("reload")},
		Logger:   logger,
	}
}

// Activate sets the theme wallpaper (generating one when the theme has
// none), recolours icons with the primary and secondary colours and runs the
// reload hooks.
func (a *Activator) Activate(ctx context.Context, themeDir string, colors colour.Palette) error {
	if err := a.SetWallpaper(ctx, themeDir, colors); err != nil {
		return err
	}
	if err := a.UpdateIcons(colors); err != nil {
		return err
	}
	if a.Reloader != nil {
		return a.Reloader.Run(ctx, a.Config.ReloadHooks)
	}
	return nil
}

// SetWallpaper finds or creates the theme wallpaper and hands it to the
// wallpaper command.
func (a *Activator) SetWallpaper(ctx context.Context, themeDir string, colors colour.Palette) error {
	wallpaper, err := FindWallpaper(themeDir)
	if err != nil {
		return err
	}
	if wallpaper == "" {
		a.Logger.Info("no wallpaper found, generating new one")
		if wallpaper, err = CreateWallpaper(themeDir, colors, DefaultWallpaperWidth, DefaultWallpaperHeight); err != nil {
			return err
		}
	}

	cmd := a.Config.WallpaperCommand
	if len(cmd) == 0 {
		return nil
	}
	a.Logger.Info("setting wallpaper", "path", wallpaper)
	args := append(cmd[1:len(cmd):len(cmd)], wallpaper)
	if _, err := a.Runner.Run(ctx, cmd[0], args...); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w", err)
	}
	return nil
}

// UpdateIcons recolours the configured icon theme. A missing icon theme is
// skipped.
func (a *Activator) UpdateIcons(colors colour.Palette) error {
	if a.Config.IconTheme == "" {
		return nil
	}
	if _, err := os.Stat(a.Config.IconTheme); errors.Is(err, fs.ErrNotExist) {
		a.Logger.Debug("icon theme not installed", "path", a.Config.IconTheme)
		return nil
	}

	primary, secondary := colors["primary"], colors["secondary"]
	if primary == "" || secondary == "" {
		return fmt.Errorf("theme has no primary and secondary colours")
	}

	updater := &IconUpdater{
		Theme:         a.Config.IconTheme,
		PrimaryIcon:   a.Config.PrimaryIcon,
		SecondaryIcon: a.Config.SecondaryIcon,
		Logger:        a.Logger.Named("icons"),
	}
	if _, err := updater.Update(primary, secondary); err != nil {
		return fmt.Errorf("failed to update icons: %w", err)
	}
	return nil
}
