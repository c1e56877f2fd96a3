package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/themer/internal/colour"
)

func newShowCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "show THEME|SOURCE",
		Short: "Print a palette with colour swatches",
		Long: `Print the palette of a generated theme, or of a colour source without
generating anything. Sources are detected the same way as for generate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var palette colour.Palette
			var err error
			if a.store.Exists(args[0]) {
				palette, err = a.store.Colors(cmd.Context(), args[0])
			} else {
				palette, err = a.readSource(cmd, args[0], opts)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPalette(palette))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.sourceKind, "source", "", "force the source kind (file, remote, image, cached)")
	cmd.Flags().StringVar(&opts.seedMode, "seed-mode", "", "image seed mode (content, filepath, manual, random)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed value for --seed-mode manual")

	return cmd
}

func (a *app) readSource(cmd *cobra.Command, descriptor string, opts *generateOptions) (colour.Palette, error) {
	src, err := a.newSource(descriptor, opts)
	if err != nil {
		return nil, err
	}
	return src.Read(cmd.Context())
}

// renderPalette lists the canonical slots first, then any other colour
// valued keys, each with a swatch.
func renderPalette(palette colour.Palette) string {
	canonical := colour.CanonicalSlots()
	keys := slices.DeleteFunc(slices.Sorted(maps.Keys(palette)), func(k string) bool {
		return slices.Contains(canonical, k)
	})

	table := NewTable([]string{"SLOT", "HEX", "SWATCH"})
	for _, key := range slices.Concat(canonical, keys) {
		hex, ok := palette[key]
		if !ok {
			continue
		}
		normalized, err := colour.NormalizeHex(hex)
		if err != nil {
			continue
		}
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(normalized)).Render("      ")
		table.AddRow([]string{key, normalized, swatch})
	}
	return table.Render()
}
