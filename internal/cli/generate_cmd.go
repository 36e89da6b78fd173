package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/CityFriends/truebid-calculator-sub000/internal/contract"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	var reqRefs []string
	var unlinked, dryRun, jsonOut, printRequest bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate WBS estimates for the proposal's requirements",
		Long: "Generate one batch of WBS elements from the proposal's requirements and roster.\n" +
			"Without a configured model the offline estimator produces deterministic\n" +
			"placeholder estimates. New elements are numbered after every number the\n" +
			"proposal has used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}

			fail := func(err error) error {
				class, failure := contract.ClassifyFailure(err)
				if jsonOut {
					if werr := writeJSON(cmd, failure); werr != nil {
						return werr
					}
					return fmt.Errorf("generation failed: %s", class)
				}
				if class != contract.StatusBadInput {
					fmt.Fprintln(cmd.ErrOrStderr(),
						formatter.Dim("Estimates can still be entered by hand with `truebid wbs add --interactive`."))
				}
				return err
			}

			opts := service.GenerateOptions{Unlinked: unlinked, DryRun: dryRun}
			for _, ref := range reqRefs {
				id, err := resolveRequirementID(ctx, app, p.ID, ref)
				if err != nil {
					return fail(err)
				}
				opts.RequirementIDs = append(opts.RequirementIDs, id)
			}

			if printRequest {
				req, err := app.Generation.BuildRequest(ctx, p.ID, opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd, contract.NewGenerationRequest(req))
			}

			stop := func() {}
			if app.interactive() && !jsonOut {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Estimating "+p.Name+"...")
			}
			res, err := app.Generation.Generate(ctx, p.ID, opts)
			stop()

			if err != nil {
				return fail(err)
			}

			if jsonOut {
				return writeJSON(cmd, contract.NewGenerationSuccess(res))
			}
			printf(cmd, "%s\n", formatter.FormatGenerationResult(res, !dryRun))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&reqRefs, "req", nil, "Limit the batch to these requirements (id, id prefix or reference)")
	cmd.Flags().BoolVar(&unlinked, "unlinked", false, "Only requirements not yet linked to an element")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate without saving")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the response document as JSON")
	cmd.Flags().BoolVar(&printRequest, "print-request", false, "Print the request document and exit")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	printf(cmd, "%s\n", data)
	return nil
}
