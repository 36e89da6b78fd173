package repository

import (
	"context"
	"errors"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness violation, such as a WBS number or
	// role name already used in the proposal.
	ErrConflict = errors.New("already exists")
)

type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	GetByName(ctx context.Context, name string) (*domain.Proposal, error)
	List(ctx context.Context) ([]*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) error
	Delete(ctx context.Context, id string) error
}

type RoleRepo interface {
	Create(ctx context.Context, proposalID string, r *domain.Role) error
	GetByID(ctx context.Context, proposalID, id string) (*domain.Role, error)
	ListByProposal(ctx context.Context, proposalID string) ([]domain.Role, error)
	Update(ctx context.Context, proposalID string, r *domain.Role) error
	Delete(ctx context.Context, proposalID, id string) error
}

type RequirementRepo interface {
	Create(ctx context.Context, proposalID string, r *domain.Requirement) error
	GetByID(ctx context.Context, proposalID, id string) (*domain.Requirement, error)
	ListByProposal(ctx context.Context, proposalID string) ([]domain.Requirement, error)
	Delete(ctx context.Context, proposalID, id string) error
}

type WBSElementRepo interface {
	Create(ctx context.Context, e *domain.WBSElement) error
	GetByID(ctx context.Context, id string) (*domain.WBSElement, error)
	GetByNumber(ctx context.Context, proposalID, number string) (*domain.WBSElement, error)
	ListByProposal(ctx context.Context, proposalID string) ([]domain.WBSElement, error)
	ListNumbers(ctx context.Context, proposalID string) ([]string, error)
	Update(ctx context.Context, e *domain.WBSElement) error
	Delete(ctx context.Context, id string) error
}

// WBSSequenceRepo tracks the highest WBS number ever minted per proposal.
type WBSSequenceRepo interface {
	HighWater(ctx context.Context, proposalID string) (domain.WBSNumber, bool, error)
	Raise(ctx context.Context, proposalID string, n domain.WBSNumber) error
}
