package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Proposals    service.ProposalService
	Roster       service.RosterService
	Requirements service.RequirementService
	Import       service.ImportService
	WBS          service.WBSService
	Generation   service.GenerationService
	Rollup       service.RollupService

	// IsInteractive reports whether stdin and stdout are a terminal. Nil
	// means never, which keeps spinners and forms out of piped output.
	IsInteractive func() bool

	proposalRef string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// proposal resolves the --proposal flag (or TRUEBID_PROPOSAL).
func (a *App) proposal(ctx context.Context) (*domain.Proposal, error) {
	return a.Proposals.Resolve(ctx, a.proposalRef)
}

// NewRootCmd creates the top-level "truebid" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "truebid",
		Short:         "WBS estimate synthesis and rollups for proposal pricing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&app.proposalRef, "proposal", "p", os.Getenv("TRUEBID_PROPOSAL"),
		"Proposal id or name (default $TRUEBID_PROPOSAL)")

	root.AddCommand(
		newProposalCmd(app),
		newRoleCmd(app),
		newReqCmd(app),
		newGenerateCmd(app),
		newWBSCmd(app),
		newRollupCmd(app),
	)

	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
