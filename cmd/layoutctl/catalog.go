package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/layout-backend/internal/models"
	"github.com/GregMSThompson/layout-backend/internal/widgets"
)

func newCatalogCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the widget types a layout can hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, catalog, err := loadEnv()
			if err != nil {
				return err
			}
			list := catalog.List()
			if scope != "" {
				kind := models.LayoutKind(scope)
				if !kind.Valid() {
					return fmt.Errorf("unknown scope %q", scope)
				}
				list = catalog.ForScope(kind)
			}
			return printCatalog(cmd, list)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "only types allowed in this layout kind (profile, guild, dashboard)")
	return cmd
}

func printCatalog(cmd *cobra.Command, list []widgets.Descriptor) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tSIZE\tSCOPES")
	for _, d := range list {
		scopes := "all"
		if len(d.Scopes) > 0 {
			scopes = fmt.Sprint(d.Scopes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\n", d.Type, d.Name, d.DefaultSize.W, d.DefaultSize.H, scopes)
	}
	return tw.Flush()
}
