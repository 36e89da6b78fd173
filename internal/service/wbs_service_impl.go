package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/google/uuid"
)

type wbsService struct {
	elements     repository.WBSElementRepo
	roles        repository.RoleRepo
	requirements repository.RequirementRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewWBSService(
	elements repository.WBSElementRepo,
	roles repository.RoleRepo,
	requirements repository.RequirementRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WBSService {
	return &wbsService{
		elements:     elements,
		roles:        roles,
		requirements: requirements,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *wbsService) List(ctx context.Context, proposalID string) ([]domain.WBSElement, error) {
	elements, err := s.elements.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return aggregation.SortedByNumber(elements), nil
}

func (s *wbsService) Get(ctx context.Context, proposalID, number string) (*domain.WBSElement, error) {
	el, err := s.elements.GetByNumber(ctx, proposalID, strings.TrimSpace(number))
	if err != nil {
		return nil, fmt.Errorf("WBS element %s: %w", number, err)
	}
	return el, nil
}

func (s *wbsService) Create(ctx context.Context, proposalID string, el *domain.WBSElement) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"proposal_id": proposalID,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-wbs-element",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	el.Title = strings.TrimSpace(el.Title)
	if el.Title == "" {
		return fmt.Errorf("WBS element title is required")
	}
	el.WBSNumber = strings.TrimSpace(el.WBSNumber)
	if el.WBSNumber != "" && !generation.ValidNumber(el.WBSNumber) {
		return fmt.Errorf("%q: %w", el.WBSNumber, ErrInvalidWBSNumber)
	}
	el.EstimateMethod = domain.EstimateMethod(domain.CoalesceStr(string(el.EstimateMethod), string(domain.MethodEngineering)))
	if !domain.ValidEstimateMethods[el.EstimateMethod] {
		return fmt.Errorf("invalid estimate method %q", el.EstimateMethod)
	}
	el.Confidence = domain.Confidence(domain.CoalesceStr(string(el.Confidence), string(domain.ConfidenceMedium)))
	if !domain.ValidConfidences[el.Confidence] {
		return fmt.Errorf("invalid confidence %q", el.Confidence)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		elements := repository.NewSQLiteWBSElementRepo(tx)
		seq := repository.NewSQLiteWBSSequenceRepo(tx)

		base, err := allocationBase(ctx, elements, seq, proposalID)
		if err != nil {
			return err
		}
		if el.WBSNumber == "" {
			el.WBSNumber = generation.NextNumbers(base, 1)[0]
		} else if n, _ := domain.ParseWBSNumber(el.WBSNumber); !generation.HighestNumber(base).Less(n) {
			// Explicit numbers must sort after every number ever minted.
			return fmt.Errorf("%q is not after %s: %w", el.WBSNumber, generation.HighestNumber(base), ErrInvalidWBSNumber)
		}

		now := time.Now().UTC()
		if el.ID == "" {
			el.ID = uuid.New().String()
		}
		el.ProposalID = proposalID
		el.CreatedAt = now
		el.UpdatedAt = now
		if err := elements.Create(ctx, el); err != nil {
			return fmt.Errorf("creating WBS element %s: %w", el.WBSNumber, err)
		}
		n, _ := domain.ParseWBSNumber(el.WBSNumber)
		return seq.Raise(ctx, proposalID, n)
	})
	fields["wbs_number"] = el.WBSNumber
	return err
}

func (s *wbsService) SetHours(ctx context.Context, proposalID, number, roleRef string, p domain.Period, hours float64) (*domain.WBSElement, error) {
	roster, err := s.roles.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	role, err := resolveRosterRole(roleRef, roster)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, proposalID, number, func(el *domain.WBSElement) error {
		el.SetLaborHours(role, p, hours)
		return nil
	})
}

// RemoveLabor matches roleRef against the element's own labor lines first,
// so lines for roles since dropped from the roster can still be removed.
func (s *wbsService) RemoveLabor(ctx context.Context, proposalID, number, roleRef string) (*domain.WBSElement, error) {
	ref := strings.TrimSpace(roleRef)
	return s.mutate(ctx, proposalID, number, func(el *domain.WBSElement) error {
		for _, le := range el.LaborEstimates {
			if le.RoleID == ref || le.RoleName == ref {
				el.RemoveRole(le.RoleID)
				return nil
			}
		}
		return fmt.Errorf("WBS element %s has no labor for %q", el.WBSNumber, ref)
	})
}

func (s *wbsService) AddRisk(ctx context.Context, proposalID, number string, risk domain.Risk) (*domain.WBSElement, error) {
	risk.Description = strings.TrimSpace(risk.Description)
	if risk.Description == "" {
		return nil, fmt.Errorf("risk description is required")
	}
	risk.Likelihood = domain.RiskLevel(domain.CoalesceStr(string(risk.Likelihood), string(domain.RiskMedium)))
	risk.Impact = domain.RiskLevel(domain.CoalesceStr(string(risk.Impact), string(domain.RiskMedium)))
	if !domain.ValidRiskLevels[risk.Likelihood] {
		return nil, fmt.Errorf("invalid risk likelihood %q", risk.Likelihood)
	}
	if !domain.ValidRiskLevels[risk.Impact] {
		return nil, fmt.Errorf("invalid risk impact %q", risk.Impact)
	}
	return s.mutate(ctx, proposalID, number, func(el *domain.WBSElement) error {
		risk.ID = el.NextRiskID()
		el.Risks = append(el.Risks, risk)
		return nil
	})
}

func (s *wbsService) AddAssumption(ctx context.Context, proposalID, number, text string) (*domain.WBSElement, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("assumption text is required")
	}
	return s.mutate(ctx, proposalID, number, func(el *domain.WBSElement) error {
		el.Assumptions = append(el.Assumptions, text)
		return nil
	})
}

func (s *wbsService) LinkRequirement(ctx context.Context, proposalID, number, requirementID string) (*domain.WBSElement, error) {
	if _, err := s.requirements.GetByID(ctx, proposalID, requirementID); err != nil {
		return nil, fmt.Errorf("%q: %w", requirementID, ErrUnknownRequirement)
	}
	return s.mutate(ctx, proposalID, number, func(el *domain.WBSElement) error {
		if !el.HasRequirement(requirementID) {
			el.LinkedRequirementIDs = append(el.LinkedRequirementIDs, requirementID)
		}
		return nil
	})
}

// Delete removes the element. Its number stays reserved by the high-water
// mark.
func (s *wbsService) Delete(ctx context.Context, proposalID, number string) error {
	el, err := s.Get(ctx, proposalID, number)
	if err != nil {
		return err
	}
	return s.elements.Delete(ctx, el.ID)
}

func (s *wbsService) mutate(ctx context.Context, proposalID, number string, fn func(el *domain.WBSElement) error) (*domain.WBSElement, error) {
	el, err := s.Get(ctx, proposalID, number)
	if err != nil {
		return nil, err
	}
	if err := fn(el); err != nil {
		return nil, err
	}
	el.UpdatedAt = time.Now().UTC()
	if err := s.elements.Update(ctx, el); err != nil {
		return nil, fmt.Errorf("updating WBS element %s: %w", el.WBSNumber, err)
	}
	return el, nil
}
