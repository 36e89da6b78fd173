package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/google/uuid"
)

var testRefCounter atomic.Int64

// Proposal options
type ProposalOption func(*domain.Proposal)

func WithOptionYears(n int) ProposalOption {
	return func(p *domain.Proposal) {
		p.Contract.PeriodOfPerformance.OptionYears = n
	}
}

func WithContractType(ct domain.ContractType) ProposalOption {
	return func(p *domain.Proposal) {
		p.Contract.ContractType = ct
	}
}

func NewTestProposal(name string, opts ...ProposalOption) *domain.Proposal {
	now := time.Now().UTC()
	p := &domain.Proposal{
		ID:   uuid.New().String(),
		Name: name,
		Contract: domain.ContractContext{
			Title:               name,
			Agency:              "GSA",
			ContractType:        domain.ContractTM,
			PeriodOfPerformance: domain.PeriodOfPerformance{BaseYear: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestRole(name string, rate float64) *domain.Role {
	return &domain.Role{
		ID:         uuid.New().String(),
		Name:       name,
		Category:   "labor",
		HourlyRate: rate,
	}
}

func NewTestRequirement(title string, typ domain.RequirementType) *domain.Requirement {
	n := testRefCounter.Add(1)
	return &domain.Requirement{
		ID:              uuid.New().String(),
		ReferenceNumber: fmt.Sprintf("C.%d", n),
		Title:           title,
		Description:     "The contractor " + string(typ) + " " + title + ".",
		Type:            typ,
		Source:          "PWS",
	}
}

// WBSElement options
type ElementOption func(*domain.WBSElement)

// WithLabor adds a labor estimate for role.
func WithLabor(role domain.Role, hours domain.PeriodHours) ElementOption {
	return func(e *domain.WBSElement) {
		e.LaborEstimates = append(e.LaborEstimates, domain.LaborEstimate{
			RoleID:        role.ID,
			RoleName:      role.Name,
			HoursByPeriod: hours,
			Confidence:    domain.ConfidenceMedium,
		})
	}
}

func WithLinkedRequirements(ids ...string) ElementOption {
	return func(e *domain.WBSElement) {
		e.LinkedRequirementIDs = append(e.LinkedRequirementIDs, ids...)
	}
}

func WithConfidence(c domain.Confidence) ElementOption {
	return func(e *domain.WBSElement) {
		e.Confidence = c
	}
}

func NewTestElement(proposalID, number, title string, opts ...ElementOption) *domain.WBSElement {
	now := time.Now().UTC()
	e := &domain.WBSElement{
		ID:                   uuid.New().String(),
		ProposalID:           proposalID,
		WBSNumber:            number,
		Title:                title,
		Assumptions:          []string{},
		EstimateMethod:       domain.MethodEngineering,
		LaborEstimates:       []domain.LaborEstimate{},
		Risks:                []domain.Risk{},
		Dependencies:         []domain.Dependency{},
		LinkedRequirementIDs: []string{},
		Confidence:           domain.ConfidenceMedium,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.RecalculateTotal()
	return e
}
