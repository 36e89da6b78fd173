package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/google/uuid"
)

type rosterService struct {
	roles repository.RoleRepo
}

func NewRosterService(roles repository.RoleRepo) RosterService {
	return &rosterService{roles: roles}
}

func (s *rosterService) Add(ctx context.Context, proposalID string, r *domain.Role) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if r.HourlyRate < 0 {
		return fmt.Errorf("role %q: hourly rate must not be negative", r.Name)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := s.roles.Create(ctx, proposalID, r); err != nil {
		return fmt.Errorf("adding role %q: %w", r.Name, err)
	}
	return nil
}

func (s *rosterService) List(ctx context.Context, proposalID string) ([]domain.Role, error) {
	return s.roles.ListByProposal(ctx, proposalID)
}

func (s *rosterService) Remove(ctx context.Context, proposalID, ref string) error {
	roster, err := s.roles.ListByProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	role, err := resolveRosterRole(ref, roster)
	if err != nil {
		return err
	}
	return s.roles.Delete(ctx, proposalID, role.ID)
}

type requirementService struct {
	requirements repository.RequirementRepo
}

func NewRequirementService(requirements repository.RequirementRepo) RequirementService {
	return &requirementService{requirements: requirements}
}

func (s *requirementService) Add(ctx context.Context, proposalID string, r *domain.Requirement) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("requirement title is required")
	}
	r.Type = domain.RequirementType(strings.ToLower(string(r.Type)))
	if r.Type == "" {
		r.Type = domain.RequirementShall
	}
	if !domain.ValidRequirementTypes[r.Type] {
		return fmt.Errorf("invalid requirement type %q", r.Type)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := s.requirements.Create(ctx, proposalID, r); err != nil {
		return fmt.Errorf("adding requirement %q: %w", r.Title, err)
	}
	return nil
}

func (s *requirementService) List(ctx context.Context, proposalID string) ([]domain.Requirement, error) {
	return s.requirements.ListByProposal(ctx, proposalID)
}

func (s *requirementService) Remove(ctx context.Context, proposalID, id string) error {
	return s.requirements.Delete(ctx, proposalID, id)
}
