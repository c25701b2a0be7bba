package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jengzang/livestock-atlas-go/internal/database"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

var renderTargets = []string{
	"centers", "heads", "fattening", "subcenters", "types-map", "density",
	"summary", "species", "types", "trend", "center",
}

// NewRenderCmd loads the dataset once and prints one payload as JSON
func NewRenderCmd() *cobra.Command {
	var (
		center   string
		category string
		order    string
		scale    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:       "render <target>",
		Short:     "Print a map layer, chart or summary as JSON",
		Long:      "Targets: " + strings.Join(renderTargets, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: renderTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			svc, err := NewService(app.Config, app.Logger)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx := cmd.Context()
			var out interface{}
			switch args[0] {
			case "centers":
				out, err = svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "total"})
			case "heads":
				out, err = svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "heads"})
			case "fattening":
				out, err = svc.CenterLayer(ctx, models.CenterMapFilter{Layer: "fattening"})
			case "subcenters":
				out, err = svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Mode: "total", Center: center, Scale: scale})
			case "types-map":
				out, err = svc.SubcenterLayer(ctx, models.SubcenterMapFilter{Mode: "types", Center: center, Scale: scale})
			case "density":
				out, err = svc.DensityLayer(ctx, models.DensityFilter{Category: category, Center: center})
			case "summary":
				out, err = svc.Summary(ctx)
			case "species":
				out, err = svc.SpeciesChart(ctx, models.ChartFilter{Order: order, Limit: limit})
			case "types":
				out, err = svc.TypesChart(ctx)
			case "trend":
				out = svc.TrendChart()
			case "center":
				out, err = svc.Center(ctx, center)
			default:
				return fmt.Errorf("unknown render target %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&center, "center", "", "restrict to one center")
	f.StringVar(&category, "category", "all", "dot-density category")
	f.StringVar(&order, "order", "asc", "species chart order (asc, desc)")
	f.StringVar(&scale, "scale", "fixed", "sub-center color scale (fixed, quantile)")
	f.IntVar(&limit, "limit", 0, "species chart center limit, 0 keeps all")
	return cmd
}
