package cli

import (
	"context"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRollupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Aggregate the estimate set by period, role and element",
		Long: "Aggregate the estimate set over the proposal's active periods. Roles removed from\n" +
			"the roster still count toward hours; their cost uses a zero rate.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "matrix",
			Short: "Hours by element and by role for each period",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				p, err := app.proposal(ctx)
				if err != nil {
					return err
				}
				view, err := app.Rollup.Matrix(ctx, p.ID)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.FormatMatrix(view))
				return nil
			},
		},
		&cobra.Command{
			Use:   "timeline",
			Short: "FTE per role and monthly team load",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				p, err := app.proposal(ctx)
				if err != nil {
					return err
				}
				view, err := app.Rollup.Timeline(ctx, p.ID)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.FormatTimeline(view))
				return nil
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Total hours, cost and staffing",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				p, err := app.proposal(ctx)
				if err != nil {
					return err
				}
				view, err := app.Rollup.Summary(ctx, p.ID)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", formatter.FormatSummary(view))
				return nil
			},
		},
	)

	return cmd
}
