package service

import (
	"context"
	"errors"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/importer"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
)

var (
	ErrUnknownRole        = errors.New("role is not on the proposal roster")
	ErrUnknownRequirement = errors.New("requirement is not on the proposal")
	ErrInvalidWBSNumber   = errors.New("WBS number must have the form major.minor")
)

type ProposalService interface {
	Create(ctx context.Context, p *domain.Proposal) error
	// Resolve looks a proposal up by id, then by name (case-insensitive).
	Resolve(ctx context.Context, ref string) (*domain.Proposal, error)
	List(ctx context.Context) ([]*domain.Proposal, error)
	UpdateContract(ctx context.Context, id string, c domain.ContractContext) (*domain.Proposal, error)
	Delete(ctx context.Context, id string) error
}

type RosterService interface {
	Add(ctx context.Context, proposalID string, r *domain.Role) error
	List(ctx context.Context, proposalID string) ([]domain.Role, error)
	// Remove takes a role id or exact name. Labor estimates that reference
	// the role are kept.
	Remove(ctx context.Context, proposalID, ref string) error
}

type RequirementService interface {
	Add(ctx context.Context, proposalID string, r *domain.Requirement) error
	List(ctx context.Context, proposalID string) ([]domain.Requirement, error)
	Remove(ctx context.Context, proposalID, id string) error
}

type ImportService interface {
	// ImportFile loads a generation-request document. With an empty
	// proposalRef the file must name a proposal, which is created.
	ImportFile(ctx context.Context, filePath, proposalRef string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema, proposalRef string) (*ImportResult, error)
}

type ImportResult struct {
	Proposal         *domain.Proposal
	Created          bool
	RoleCount        int
	RequirementCount int
}

type WBSService interface {
	// List returns the estimate set in WBS number order.
	List(ctx context.Context, proposalID string) ([]domain.WBSElement, error)
	Get(ctx context.Context, proposalID, number string) (*domain.WBSElement, error)
	// Create adds a manually entered element. An empty WBSNumber is
	// allocated after every number the proposal has ever used.
	Create(ctx context.Context, proposalID string, el *domain.WBSElement) error
	SetHours(ctx context.Context, proposalID, number, roleRef string, p domain.Period, hours float64) (*domain.WBSElement, error)
	RemoveLabor(ctx context.Context, proposalID, number, roleRef string) (*domain.WBSElement, error)
	AddRisk(ctx context.Context, proposalID, number string, risk domain.Risk) (*domain.WBSElement, error)
	AddAssumption(ctx context.Context, proposalID, number, text string) (*domain.WBSElement, error)
	LinkRequirement(ctx context.Context, proposalID, number, requirementID string) (*domain.WBSElement, error)
	Delete(ctx context.Context, proposalID, number string) error
}

// GenerateOptions selects the requirements of one generation batch.
type GenerateOptions struct {
	// RequirementIDs limits the batch; empty means every requirement.
	RequirementIDs []string
	// Unlinked drops requirements already linked to an element.
	Unlinked bool
	// DryRun returns the generated elements without storing them.
	DryRun bool
}

type GenerationService interface {
	BuildRequest(ctx context.Context, proposalID string, opts GenerateOptions) (intelligence.EstimateRequest, error)
	Generate(ctx context.Context, proposalID string, opts GenerateOptions) (*intelligence.EstimateResult, error)
}

type RollupService interface {
	Matrix(ctx context.Context, proposalID string) (aggregation.MatrixView, error)
	Timeline(ctx context.Context, proposalID string) (aggregation.TimelineView, error)
	Summary(ctx context.Context, proposalID string) (aggregation.SummaryView, error)
}
