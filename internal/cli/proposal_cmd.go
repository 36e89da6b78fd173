package cli

import (
	"context"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/spf13/cobra"
)

func newProposalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Manage proposals",
	}

	cmd.AddCommand(
		newProposalAddCmd(app),
		newProposalListCmd(app),
		newProposalShowCmd(app),
		newProposalUpdateCmd(app),
		newProposalRemoveCmd(app),
	)

	return cmd
}

func newProposalAddCmd(app *App) *cobra.Command {
	var name, title, agency, contractType string
	var optionYears int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Proposal{
				Name: name,
				Contract: domain.ContractContext{
					Title:               title,
					Agency:              agency,
					ContractType:        domain.ContractType(contractType),
					PeriodOfPerformance: domain.PeriodOfPerformance{BaseYear: true, OptionYears: optionYears},
				},
			}
			if err := app.Proposals.Create(context.Background(), p); err != nil {
				return err
			}

			printf(cmd, "Created proposal %s %s\n", formatter.Bold(p.Name), formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Proposal name")
	cmd.Flags().StringVar(&title, "title", "", "Contract title")
	cmd.Flags().StringVar(&agency, "agency", "", "Contracting agency")
	cmd.Flags().StringVar(&contractType, "type", string(domain.ContractTM), "Contract type (tm, ffp, hybrid)")
	cmd.Flags().IntVar(&optionYears, "option-years", 0, "Number of option years (0-4)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProposalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposals, err := app.Proposals.List(context.Background())
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.FormatProposalList(proposals))
			return nil
		},
	}
}

func newProposalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ID|NAME]",
		Short: "Show proposal details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ref := app.proposalRef
			if len(args) == 1 {
				ref = args[0]
			}
			p, err := app.Proposals.Resolve(ctx, ref)
			if err != nil {
				return err
			}

			roles, err := app.Roster.List(ctx, p.ID)
			if err != nil {
				return err
			}
			reqs, err := app.Requirements.List(ctx, p.ID)
			if err != nil {
				return err
			}
			elements, err := app.WBS.List(ctx, p.ID)
			if err != nil {
				return err
			}

			printf(cmd, "%s\n", formatter.FormatProposal(p, formatter.ProposalCounts{
				Roles:        len(roles),
				Requirements: len(reqs),
				Elements:     len(elements),
			}))
			return nil
		},
	}
}

func newProposalUpdateCmd(app *App) *cobra.Command {
	var title, agency, contractType string
	var optionYears int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the contract context of the selected proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}

			c := p.Contract
			flags := cmd.Flags()
			if flags.Changed("title") {
				c.Title = title
			}
			if flags.Changed("agency") {
				c.Agency = agency
			}
			if flags.Changed("type") {
				c.ContractType = domain.ContractType(contractType)
			}
			if flags.Changed("option-years") {
				c.PeriodOfPerformance.OptionYears = optionYears
			}

			updated, err := app.Proposals.UpdateContract(ctx, p.ID, c)
			if err != nil {
				return err
			}
			printf(cmd, "Updated proposal %s\n", formatter.Bold(updated.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Contract title")
	cmd.Flags().StringVar(&agency, "agency", "", "Contracting agency")
	cmd.Flags().StringVar(&contractType, "type", "", "Contract type (tm, ffp, hybrid)")
	cmd.Flags().IntVar(&optionYears, "option-years", 0, "Number of option years (0-4)")

	return cmd
}

func newProposalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID|NAME",
		Short: "Delete a proposal with its roster, requirements and estimates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.Proposals.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Proposals.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("removing proposal %q: %w", p.Name, err)
			}
			printf(cmd, "Removed proposal %s\n", formatter.Bold(p.Name))
			return nil
		},
	}
}
