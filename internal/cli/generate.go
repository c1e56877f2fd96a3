package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themer/internal/config"
	"github.com/jmylchreest/themer/internal/desktop"
	imgutil "github.com/jmylchreest/themer/internal/image"
	"github.com/jmylchreest/themer/internal/renderctx"
	"github.com/jmylchreest/themer/internal/source"
	"github.com/jmylchreest/themer/internal/source/seed"
	"github.com/jmylchreest/themer/internal/theme"
	httputil "github.com/jmylchreest/themer/internal/util/http"
)

type generateOptions struct {
	template   string
	config     string
	sourceKind string
	seedMode   string
	seed       int64
	activate   bool
	force      bool
}

// vimSchemeFetcher is implemented by sources that also publish a vim
// colour scheme.
type vimSchemeFetcher interface {
	FetchVimScheme(ctx context.Context) ([]byte, error)
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate NAME SOURCE",
		Short: "Generate a new theme from a colour source",
		Long: `Generate a named theme by rendering a template set with a palette.

SOURCE is detected automatically:
  693812          a sweyla.com theme id (numeric and not an existing file)
  wall.jpg        an image (.jpg .jpeg .png .gif .webp, local or http(s))
  colors          an Xresources style colour file

Template sources ending in .tpl or .conf are rendered with Go templates; the
palette slots (black, red, ..., alt_white, background, foreground) and the
config variables are available as {{ .name }}. Other files are copied.

Examples:
  # From a sweyla theme, activating immediately
  themer generate ocean 693812 -a

  # From a wallpaper with a reproducible random seed
  themer generate beach ~/Pictures/beach.jpg --seed-mode manual --seed 42

  # With another template set
  themer generate work colors.Xresources -t sway`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runGenerate(cmd.Context(), a, opts, args[0], args[1]); err != nil {
				return err
			}

			activate := opts.activate
			if !activate && isTerminal(cmd.InOrStdin()) {
				var err error
				if activate, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Activate now? yN "); err != nil {
					return err
				}
			}
			if activate {
				return a.activate(cmd.Context(), args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.template, "template", "t", "i3", "template set under the templates directory")
	cmd.Flags().StringVarP(&opts.config, "config", "c", config.DefaultTemplateConfig, "config file inside the template set")
	cmd.Flags().StringVar(&opts.sourceKind, "source", "", "force the source kind (file, remote, image)")
	cmd.Flags().StringVar(&opts.seedMode, "seed-mode", "", "image seed mode (content, filepath, manual, random)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed value for --seed-mode manual")
	cmd.Flags().BoolVarP(&opts.activate, "activate", "a", false, "activate the theme without asking")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "replace an existing theme")

	return cmd
}

func runGenerate(ctx context.Context, a *app, opts *generateOptions, name, descriptor string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.store.Exists(name) && !opts.force {
		return fmt.Errorf("%w: %s (use --force to replace it)", theme.ErrExists, name)
	}

	templateDir := a.cfg.TemplateDir(opts.template)
	configPath := filepath.Join(templateDir, opts.config)
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to find file %q", configPath)
	}
	tmplCfg, err := config.LoadTemplate(configPath)
	if err != nil {
		return err
	}

	src, err := a.newSource(descriptor, opts)
	if err != nil {
		return err
	}
	a.logger.Info("reading palette", "source", src.Name(), "input", descriptor)
	palette, err := src.Read(ctx)
	if err != nil {
		return err
	}

	rc, err := renderctx.Build(tmplCfg.Variables, palette, a.cfg.DefaultRoles)
	if err != nil {
		return err
	}

	req := theme.GenerateRequest{
		Name:        name,
		TemplateDir: templateDir,
		Template:    tmplCfg,
		Context:     rc,
		Overwrite:   opts.force,
	}
	if wp, ok := src.(source.WallpaperProvider); ok {
		req.Wallpaper = wp.Wallpaper()
		if imgutil.IsURL(req.Wallpaper) {
			data, err := httputil.Fetch(ctx, req.Wallpaper, httputil.FetchOptions{Timeout: a.cfg.Remote.Timeout})
			if err != nil {
				return fmt.Errorf("failed to fetch wallpaper: %w", err)
			}
			req.WallpaperData = data
		}
	}

	if err := a.store.Generate(req); err != nil {
		return err
	}
	a.logger.Info("generated theme", "theme", name, "path", a.store.Path(name))

	if fetcher, ok := src.(vimSchemeFetcher); ok && a.cfg.Desktop.VimColorsDir != "" {
		scheme, err := fetcher.FetchVimScheme(ctx)
		if err != nil {
			a.logger.Warn("failed to fetch vim colour scheme", "error", err)
			return nil
		}
		path, err := desktop.InstallVimScheme(a.cfg.Desktop.VimColorsDir, name, scheme)
		if err != nil {
			return err
		}
		a.logger.Info("saved vim colour scheme", "path", path)
	}
	return nil
}

// newSource builds the palette source for descriptor, honouring the
// --source and seed overrides.
func (a *app) newSource(descriptor string, opts *generateOptions) (source.Source, error) {
	kind := source.Detect(descriptor)
	if opts.sourceKind != "" {
		var err error
		if kind, err = source.ParseKind(opts.sourceKind); err != nil {
			return nil, err
		}
	}

	imageOpts := a.cfg.ImageOptions()
	if opts.seedMode != "" {
		mode, err := seed.ParseMode(opts.seedMode)
		if err != nil {
			return nil, err
		}
		imageOpts.Seed = seed.Config{Mode: mode}
		if mode == seed.ModeManual {
			value := opts.seed
			imageOpts.Seed.Value = &value
		}
	}

	return source.New(kind, descriptor, source.Options{
		Remote: a.cfg.RemoteOptions(),
		Image:  imageOpts,
		Logger: a.logger.Named("source"),
	})
}
