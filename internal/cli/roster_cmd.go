package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
	"github.com/spf13/cobra"
)

func newRoleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage the labor roster of a proposal",
	}

	cmd.AddCommand(
		newRoleAddCmd(app),
		newRoleListCmd(app),
		newRoleRemoveCmd(app),
	)

	return cmd
}

func newRoleAddCmd(app *App) *cobra.Command {
	var name, category, description string
	var rate float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a labor category to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			r := &domain.Role{Name: name, Category: category, Description: description, HourlyRate: rate}
			if err := app.Roster.Add(ctx, p.ID, r); err != nil {
				return err
			}
			printf(cmd, "Added role %s at %s/h\n", formatter.Bold(r.Name), formatter.FormatAmount(r.HourlyRate))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Role title, e.g. \"Senior Developer\"")
	cmd.Flags().StringVar(&category, "category", "", "Labor category")
	cmd.Flags().StringVar(&description, "description", "", "Role description")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			roles, err := app.Roster.List(ctx, p.ID)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.FormatRoleList(roles))
			return nil
		},
	}
}

func newRoleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID|NAME",
		Short: "Remove a role from the roster",
		Long:  "Remove a role from the roster. Labor already estimated for the role is kept\nand shows up as unrostered in the rollups.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			if err := app.Roster.Remove(ctx, p.ID, args[0]); err != nil {
				return err
			}
			printf(cmd, "Removed role %s\n", args[0])
			return nil
		},
	}
}

// resolveRequirementID accepts a full requirement id, an id prefix as shown
// in listings, or a reference number.
func resolveRequirementID(ctx context.Context, app *App, proposalID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("requirement ID is required")
	}
	reqs, err := app.Requirements.List(ctx, proposalID)
	if err != nil {
		return "", err
	}

	for _, r := range reqs {
		if r.ID == input {
			return r.ID, nil
		}
	}
	for _, r := range reqs {
		if r.ReferenceNumber != "" && strings.EqualFold(r.ReferenceNumber, input) {
			return r.ID, nil
		}
	}

	var matches []string
	for _, r := range reqs {
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("requirement not found: %q: %w", input, service.ErrUnknownRequirement)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("requirement ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newReqCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "req",
		Aliases: []string{"requirement"},
		Short:   "Manage solicitation requirements",
	}

	cmd.AddCommand(
		newReqAddCmd(app),
		newReqListCmd(app),
		newReqRemoveCmd(app),
		newReqImportCmd(app),
	)

	return cmd
}

func newReqAddCmd(app *App) *cobra.Command {
	var r domain.Requirement
	var reqType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			r.Type = domain.RequirementType(reqType)
			if err := app.Requirements.Add(ctx, p.ID, &r); err != nil {
				return err
			}
			printf(cmd, "Added requirement %s %s\n", formatter.TruncID(r.ID), formatter.Bold(r.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&r.Title, "title", "", "Requirement title")
	cmd.Flags().StringVar(&r.Description, "description", "", "Requirement text")
	cmd.Flags().StringVar(&r.ReferenceNumber, "ref", "", "Solicitation reference, e.g. PWS 3.1.2")
	cmd.Flags().StringVar(&reqType, "type", string(domain.RequirementShall), "Requirement type (shall, should, may, will)")
	cmd.Flags().StringVar(&r.Category, "category", "", "Category")
	cmd.Flags().StringVar(&r.Source, "source", "", "Source document")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newReqListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			reqs, err := app.Requirements.List(ctx, p.ID)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", formatter.FormatRequirementList(reqs))
			return nil
		},
	}
}

func newReqRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := app.proposal(ctx)
			if err != nil {
				return err
			}
			id, err := resolveRequirementID(ctx, app, p.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Requirements.Remove(ctx, p.ID, id); err != nil {
				return err
			}
			printf(cmd, "Removed requirement %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newReqImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import roles, requirements and contract context from a JSON request document",
		Long: "Import a generation request document. With --proposal the roles and requirements\n" +
			"are added to that proposal; otherwise the document's \"proposal\" name is created.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(context.Background(), args[0], app.proposalRef)
			if err != nil {
				return err
			}

			verb := "Imported into"
			if res.Created {
				verb = "Created"
			}
			printf(cmd, "%s proposal %s: %s, %s\n", verb, formatter.Bold(res.Proposal.Name),
				formatter.Plural(res.RoleCount, "role", "roles"),
				formatter.Plural(res.RequirementCount, "requirement", "requirements"))
			return nil
		},
	}
}
