package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
)

type generationService struct {
	proposals    repository.ProposalRepo
	roles        repository.RoleRepo
	requirements repository.RequirementRepo
	elements     repository.WBSElementRepo
	sequences    repository.WBSSequenceRepo
	estimator    intelligence.EstimateService
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewGenerationService(
	proposals repository.ProposalRepo,
	roles repository.RoleRepo,
	requirements repository.RequirementRepo,
	elements repository.WBSElementRepo,
	sequences repository.WBSSequenceRepo,
	estimator intelligence.EstimateService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) GenerationService {
	return &generationService{
		proposals:    proposals,
		roles:        roles,
		requirements: requirements,
		elements:     elements,
		sequences:    sequences,
		estimator:    estimator,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// BuildRequest assembles the batch input from the stored proposal. The
// existing numbers include the high-water mark so new numbers land after any
// deleted element's.
func (s *generationService) BuildRequest(ctx context.Context, proposalID string, opts GenerateOptions) (intelligence.EstimateRequest, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return intelligence.EstimateRequest{}, fmt.Errorf("loading proposal: %w", err)
	}
	roster, err := s.roles.ListByProposal(ctx, proposalID)
	if err != nil {
		return intelligence.EstimateRequest{}, err
	}
	reqs, err := s.requirements.ListByProposal(ctx, proposalID)
	if err != nil {
		return intelligence.EstimateRequest{}, err
	}
	existing, err := allocationBase(ctx, s.elements, s.sequences, proposalID)
	if err != nil {
		return intelligence.EstimateRequest{}, err
	}

	reqs, err = s.selectRequirements(ctx, proposalID, reqs, opts)
	if err != nil {
		return intelligence.EstimateRequest{}, err
	}

	return intelligence.EstimateRequest{
		Requirements:       reqs,
		Roles:              roster,
		ExistingWBSNumbers: existing,
		Contract:           p.Contract,
	}, nil
}

func (s *generationService) selectRequirements(ctx context.Context, proposalID string, reqs []domain.Requirement, opts GenerateOptions) ([]domain.Requirement, error) {
	if len(opts.RequirementIDs) > 0 {
		byID := make(map[string]domain.Requirement, len(reqs))
		for _, r := range reqs {
			byID[r.ID] = r
		}
		picked := make([]domain.Requirement, 0, len(opts.RequirementIDs))
		for _, id := range opts.RequirementIDs {
			r, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%q: %w", id, ErrUnknownRequirement)
			}
			picked = append(picked, r)
		}
		reqs = picked
	}

	if opts.Unlinked {
		elements, err := s.elements.ListByProposal(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		linked := map[string]bool{}
		for _, el := range elements {
			for _, id := range el.LinkedRequirementIDs {
				linked[id] = true
			}
		}
		kept := make([]domain.Requirement, 0, len(reqs))
		for _, r := range reqs {
			if !linked[r.ID] {
				kept = append(kept, r)
			}
		}
		reqs = kept
	}
	return reqs, nil
}

func (s *generationService) Generate(ctx context.Context, proposalID string, opts GenerateOptions) (result *intelligence.EstimateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"proposal_id": proposalID,
		"dry_run":     opts.DryRun,
	}
	defer func() {
		var genErr *intelligence.GenerationError
		if errors.As(err, &genErr) {
			fields["error_code"] = string(genErr.Code)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-estimates",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	req, err := s.BuildRequest(ctx, proposalID, opts)
	if err != nil {
		return nil, err
	}
	fields["requirements"] = len(req.Requirements)
	fields["roles"] = len(req.Roles)

	result, err = s.estimator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["elements"] = len(result.Elements)
	fields["mock"] = result.Mock

	known := make(map[string]bool, len(req.Requirements))
	for _, r := range req.Requirements {
		known[r.ID] = true
	}
	now := time.Now().UTC()
	for i := range result.Elements {
		el := &result.Elements[i]
		el.ProposalID = proposalID
		el.CreatedAt = now
		el.UpdatedAt = now
		el.LinkedRequirementIDs = keepKnown(el.LinkedRequirementIDs, known)
	}

	if opts.DryRun {
		return result, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		elements := repository.NewSQLiteWBSElementRepo(tx)
		seq := repository.NewSQLiteWBSSequenceRepo(tx)

		numbers := make([]string, 0, len(result.Elements))
		for i := range result.Elements {
			el := &result.Elements[i]
			if err := elements.Create(ctx, el); err != nil {
				return fmt.Errorf("storing WBS element %s: %w", el.WBSNumber, err)
			}
			numbers = append(numbers, el.WBSNumber)
		}
		return seq.Raise(ctx, proposalID, generation.HighestNumber(numbers))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func keepKnown(ids []string, known map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}
