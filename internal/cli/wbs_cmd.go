package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/spf13/cobra"
)

func newWBSCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wbs",
		Short: "Inspect and edit the estimate set",
	}

	cmd.AddCommand(
		newWBSListCmd(app),
		newWBSShowCmd(app),
		newWBSAddCmd(app),
		newWBSHoursCmd(app),
		newWBSUnassignCmd(app),
		newWBSRiskCmd(app),
		newWBSAssumeCmd(app),
		newWBSLinkCmd(app),
		newWBSRemoveCmd(app),
	)

	return cmd
}

// parsePeriodArg accepts base, option1..option4, the o1..o4 shorthand and
// the OY1..OY4 column labels.
func parsePeriodArg(s string) (domain.Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Replace(s, "oy", "o", 1)
	p, ok := domain.ParsePeriod(s)
	if !ok {
		return "", fmt.Errorf("invalid period %q (use base, oy1-oy4)", s)
	}
	return p, nil
}

func newWBSListCmd(app *App) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List WBS elements in number order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			elements, err := app.WBS.List(ctx, p.ID)
			if err != nil {
				return err
			}
			if tree && len(elements) > 0 {
				printf(cmd, "%s", formatter.FormatElementTree(elements))
				return nil
			}
			printf(cmd, "%s\n", formatter.FormatElementList(elements))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Group elements under their major number")

	return cmd
}

func newWBSShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NUMBER",
		Short: "Show the basis of estimate for one element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			el, err := app.WBS.Get(ctx, p.ID, args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.FormatElement(*el, p.Contract.ActivePeriods()))
			return nil
		},
	}
}

func newWBSAddCmd(app *App) *cobra.Command {
	var draft elementDraft
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a WBS element by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}

			var roster []domain.Role
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if roster, err = app.Roster.List(ctx, p.ID); err != nil {
					return err
				}
				if err := elementForm(&draft, roster).Run(); err != nil {
					return err
				}
			} else if strings.TrimSpace(draft.Title) == "" {
				return fmt.Errorf("--title is required (or use --interactive)")
			}

			el, err := draft.toElement(roster)
			if err != nil {
				return err
			}
			if err := app.WBS.Create(ctx, p.ID, el); err != nil {
				return err
			}
			printf(cmd, "Added %s %s (%s h)\n", formatter.StyleBlue.Render(el.WBSNumber),
				formatter.Bold(el.Title), formatter.FormatHours(el.TotalHours))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Number, "number", "", "WBS number (default: next free number)")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Element title")
	cmd.Flags().StringVar(&draft.SOW, "sow", "", "SOW/PWS reference")
	cmd.Flags().StringVar(&draft.Why, "why", "", "Requirement driver")
	cmd.Flags().StringVar(&draft.What, "what", "", "Work performed")
	cmd.Flags().StringVar(&draft.NotIncluded, "not-included", "", "Explicit exclusions")
	cmd.Flags().StringVar(&draft.Method, "method", string(domain.MethodEngineering), "Estimate method (engineering, analogous, parametric, level-of-effort, expert)")
	cmd.Flags().StringVar(&draft.Confidence, "confidence", string(domain.ConfidenceMedium), "Confidence (high, medium, low)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Enter the element in a form")

	return cmd
}

func newWBSHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours NUMBER ROLE PERIOD HOURS",
		Short: "Set the hours a role spends on an element in one period",
		Long: "Set labor hours. ROLE is a roster role id or name; PERIOD is base or oy1-oy4.\n" +
			"Negative hours are stored as zero.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			period, err := parsePeriodArg(args[2])
			if err != nil {
				return err
			}
			hours, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("invalid hours %q: %w", args[3], err)
			}

			el, err := app.WBS.SetHours(ctx, p.ID, args[0], args[1], period, hours)
			if err != nil {
				return err
			}
			printf(cmd, "%s %s total %s h\n", formatter.StyleBlue.Render(el.WBSNumber),
				formatter.Bold(el.Title), formatter.FormatHours(el.TotalHours))
			return nil
		},
	}
}

func newWBSUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign NUMBER ROLE",
		Short: "Remove a role's labor line from an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			el, err := app.WBS.RemoveLabor(ctx, p.ID, args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd, "%s %s total %s h\n", formatter.StyleBlue.Render(el.WBSNumber),
				formatter.Bold(el.Title), formatter.FormatHours(el.TotalHours))
			return nil
		},
	}
}

func newWBSRiskCmd(app *App) *cobra.Command {
	var risk domain.Risk
	var likelihood, impact string

	cmd := &cobra.Command{
		Use:   "risk NUMBER",
		Short: "Record a risk against an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			risk.Likelihood = domain.RiskLevel(strings.ToLower(likelihood))
			risk.Impact = domain.RiskLevel(strings.ToLower(impact))

			el, err := app.WBS.AddRisk(ctx, p.ID, args[0], risk)
			if err != nil {
				return err
			}
			added := el.Risks[len(el.Risks)-1]
			printf(cmd, "Added risk %s to %s\n", added.ID, formatter.StyleBlue.Render(el.WBSNumber))
			return nil
		},
	}

	cmd.Flags().StringVar(&risk.Description, "description", "", "What could go wrong")
	cmd.Flags().StringVar(&likelihood, "likelihood", string(domain.RiskMedium), "Likelihood (high, medium, low)")
	cmd.Flags().StringVar(&impact, "impact", string(domain.RiskMedium), "Impact (high, medium, low)")
	cmd.Flags().StringVar(&risk.Mitigation, "mitigation", "", "Mitigation")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newWBSAssumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assume NUMBER TEXT",
		Short: "Record an assumption on an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			el, err := app.WBS.AddAssumption(ctx, p.ID, args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd, "%s now has %s\n", formatter.StyleBlue.Render(el.WBSNumber),
				formatter.Plural(len(el.Assumptions), "assumption", "assumptions"))
			return nil
		},
	}
}

func newWBSLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link NUMBER REQUIREMENT",
		Short: "Link a requirement to an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			reqID, err := resolveRequirementID(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			el, err := app.WBS.LinkRequirement(ctx, p.ID, args[0], reqID)
			if err != nil {
				return err
			}
			printf(cmd, "Linked %s to %s\n", formatter.TruncID(reqID), formatter.StyleBlue.Render(el.WBSNumber))
			return nil
		},
	}
}

func newWBSRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NUMBER",
		Short: "Delete an element; its number is not reused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			if err := app.WBS.Delete(ctx, p.ID, args[0]); err != nil {
				return err
			}
			printf(cmd, "Removed %s\n", formatter.StyleBlue.Render(args[0]))
			return nil
		},
	}
}
