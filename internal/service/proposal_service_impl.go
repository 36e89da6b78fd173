package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/google/uuid"
)

type proposalService struct {
	proposals repository.ProposalRepo
}

func NewProposalService(proposals repository.ProposalRepo) ProposalService {
	return &proposalService{proposals: proposals}
}

func (s *proposalService) Create(ctx context.Context, p *domain.Proposal) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("proposal name is required")
	}
	if err := normalizeContract(&p.Contract); err != nil {
		return err
	}
	if _, err := s.proposals.GetByName(ctx, p.Name); err == nil {
		return fmt.Errorf("proposal %q: %w", p.Name, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.proposals.Create(ctx, p)
}

func (s *proposalService) Resolve(ctx context.Context, ref string) (*domain.Proposal, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("no proposal selected; pass --proposal or set TRUEBID_PROPOSAL")
	}
	p, err := s.proposals.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	p, err = s.proposals.GetByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("proposal %q: %w", ref, err)
	}
	return p, nil
}

func (s *proposalService) List(ctx context.Context) ([]*domain.Proposal, error) {
	return s.proposals.List(ctx)
}

func (s *proposalService) UpdateContract(ctx context.Context, id string, c domain.ContractContext) (*domain.Proposal, error) {
	if err := normalizeContract(&c); err != nil {
		return nil, err
	}
	p, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Contract = c
	p.UpdatedAt = time.Now().UTC()
	if err := s.proposals.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *proposalService) Delete(ctx context.Context, id string) error {
	return s.proposals.Delete(ctx, id)
}
