package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themer/internal/compression"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME FILE",
		Short: "Write a theme to an archive",
		Long: `Write a theme directory to an archive. The format follows the extension of
FILE: .tar.gz, .tar.xz or .zip.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) (err error) {
			format, err := compression.DetectFormat(args[1])
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("failed to create archive: %w", err)
			}
			defer func() {
				err = errors.Join(err, f.Close())
				if err != nil {
					_ = os.Remove(args[1])
				}
			}()

			if err := a.store.Export(args[0], f, format); err != nil {
				return err
			}
			a.logger.Info("exported theme", "theme", args[0], "archive", args[1])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import FILE NAME",
		Short: "Create a theme from an archive",
		Long: `Unpack an archive written by export into a new theme. The format follows the
extension of FILE: .tar.gz, .tar.xz, .tar.bz2 or .zip.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			format, err := compression.DetectFormat(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer f.Close()

			if err := a.store.Import(f, args[1], format, force); err != nil {
				return err
			}
			a.logger.Info("imported theme", "theme", args[1], "archive", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing theme")

	return cmd
}
