package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/layout-backend/internal/grid"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

func newCompactCmd() *cobra.Command {
	var cols int
	cmd := &cobra.Command{
		Use:   "compact FILE",
		Short: "Compact a stored layout, optionally remapped to another column count",
		Long: `Reads { "layout": { "widgets": [...] } } or a bare widget array from FILE
("-" for stdin) and prints the compacted layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, _, err := loadEnv()
			if err != nil {
				return err
			}
			ws, err := readWidgets(cmd, args[0])
			if err != nil {
				return err
			}
			g := layout.Grid()
			out := g.Compact(ws)
			if cols > 0 && cols != g.Columns {
				out = g.RemapForBreakpoint(ws, cols)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.Layout{Widgets: out})
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 0, "target column count (default: widest breakpoint)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a stored layout for duplicate ids, unknown types and overlaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, catalog, err := loadEnv()
			if err != nil {
				return err
			}
			ws, err := readWidgets(cmd, args[0])
			if err != nil {
				return err
			}
			if err := models.ValidateWidgets(ws); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			problems := 0
			for _, x := range ws {
				if _, ok := catalog.Lookup(x.Type); !ok {
					fmt.Fprintf(w, "%s: unknown widget type %q\n", x.ID, x.Type)
					problems++
				}
			}
			for _, pair := range grid.Overlaps(grid.Placements(ws)) {
				fmt.Fprintf(w, "%s overlaps %s\n", pair[0], pair[1])
				problems++
			}
			g := layout.Grid()
			for _, x := range ws {
				if x.Position.X+x.Size.W > g.Columns {
					fmt.Fprintf(w, "%s: extends past column %d\n", x.ID, g.Columns)
					problems++
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintf(w, "ok: %d widget(s)\n", len(ws))
			return nil
		},
	}
}

func readWidgets(cmd *cobra.Command, path string) ([]models.Widget, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Layout *models.Layout `json:"layout"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Layout != nil {
		return normalized(doc.Layout.Widgets), nil
	}
	var ws []models.Widget
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return normalized(ws), nil
}

func normalized(ws []models.Widget) []models.Widget {
	out := make([]models.Widget, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Normalized())
	}
	return out
}
