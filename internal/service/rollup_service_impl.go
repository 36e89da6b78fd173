package service

import (
	"context"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
)

type rollupService struct {
	proposals repository.ProposalRepo
	roles     repository.RoleRepo
	elements  repository.WBSElementRepo
	opts      aggregation.SummaryOptions
}

// NewRollupService builds views over the stored estimate set. Views cover
// the proposal's active periods only.
func NewRollupService(
	proposals repository.ProposalRepo,
	roles repository.RoleRepo,
	elements repository.WBSElementRepo,
	opts aggregation.SummaryOptions,
) RollupService {
	return &rollupService{
		proposals: proposals,
		roles:     roles,
		elements:  elements,
		opts:      opts,
	}
}

type rollupInput struct {
	elements []domain.WBSElement
	roster   []domain.Role
	periods  []domain.Period
}

func (s *rollupService) load(ctx context.Context, proposalID string) (rollupInput, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return rollupInput{}, fmt.Errorf("loading proposal: %w", err)
	}
	roster, err := s.roles.ListByProposal(ctx, proposalID)
	if err != nil {
		return rollupInput{}, err
	}
	elements, err := s.elements.ListByProposal(ctx, proposalID)
	if err != nil {
		return rollupInput{}, err
	}
	return rollupInput{elements: elements, roster: roster, periods: p.Contract.ActivePeriods()}, nil
}

func (s *rollupService) Matrix(ctx context.Context, proposalID string) (aggregation.MatrixView, error) {
	in, err := s.load(ctx, proposalID)
	if err != nil {
		return aggregation.MatrixView{}, err
	}
	return aggregation.BuildMatrix(in.elements, in.roster, in.periods), nil
}

func (s *rollupService) Timeline(ctx context.Context, proposalID string) (aggregation.TimelineView, error) {
	in, err := s.load(ctx, proposalID)
	if err != nil {
		return aggregation.TimelineView{}, err
	}
	return aggregation.BuildTimeline(in.elements, in.roster, in.periods, s.opts.FTE), nil
}

func (s *rollupService) Summary(ctx context.Context, proposalID string) (aggregation.SummaryView, error) {
	in, err := s.load(ctx, proposalID)
	if err != nil {
		return aggregation.SummaryView{}, err
	}
	return aggregation.BuildSummary(in.elements, in.roster, in.periods, s.opts), nil
}
