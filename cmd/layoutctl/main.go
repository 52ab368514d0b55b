// Command layoutctl inspects widget catalogs and rewrites stored widget sets
// offline, using the same grid rules as the API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/layout-backend/internal/config"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

var (
	catalogFile string
	gridConfig  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "layoutctl",
		Short:         "Inspect widget catalogs and widget layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&catalogFile, "catalog", "", "widget catalog YAML (default: built-in)")
	root.PersistentFlags().StringVar(&gridConfig, "grid-config", "", "grid TOML file (default: built-in)")

	root.AddCommand(newCatalogCmd(), newCompactCmd(), newValidateCmd())
	return root
}

func loadEnv() (*config.LayoutConfig, *widgets.Catalog, error) {
	layout, err := config.LoadLayoutFromFile(gridConfig)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := widgets.Load(catalogFile, layout.Bounds)
	if err != nil {
		return nil, nil, err
	}
	return layout, catalog, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "layoutctl:", err)
		os.Exit(1)
	}
}
