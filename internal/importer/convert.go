package importer

import (
	"strings"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/google/uuid"
)

// ImportResult holds the domain objects produced from an import file.
type ImportResult struct {
	// Proposal is nil when the file names no proposal; the caller then
	// imports into an existing one.
	Proposal     *domain.Proposal
	Contract     *domain.ContractContext
	Roles        []domain.Role
	Requirements []domain.Requirement
}

// Convert transforms a validated ImportSchema into domain objects ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema is
// valid.
func Convert(schema *ImportSchema) *ImportResult {
	now := time.Now().UTC()
	out := &ImportResult{
		Roles:        make([]domain.Role, 0, len(schema.Roles)),
		Requirements: make([]domain.Requirement, 0, len(schema.Requirements)),
	}

	if schema.ContractContext != nil {
		c := convertContract(schema.ContractContext)
		out.Contract = &c
	}

	if schema.Proposal != nil {
		p := &domain.Proposal{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(schema.Proposal.Name),
			Contract:  DefaultContract(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if out.Contract != nil {
			p.Contract = *out.Contract
		}
		out.Proposal = p
	}

	for _, r := range schema.Roles {
		role := domain.Role{
			ID:          idOrNew(r.ID),
			Name:        strings.TrimSpace(r.Name),
			Category:    r.Category,
			Description: r.Description,
		}
		if r.HourlyRate != nil {
			role.HourlyRate = *r.HourlyRate
		}
		out.Roles = append(out.Roles, role)
	}

	for _, r := range schema.Requirements {
		typ := domain.RequirementType(strings.ToLower(r.Type))
		if typ == "" {
			typ = domain.RequirementShall
		}
		out.Requirements = append(out.Requirements, domain.Requirement{
			ID:              idOrNew(r.ID),
			ReferenceNumber: strings.TrimSpace(r.ReferenceNumber),
			Title:           strings.TrimSpace(r.Title),
			Description:     r.Description,
			Type:            typ,
			Category:        r.Category,
			Source:          r.Source,
		})
	}

	return out
}

// DefaultContract is the contract a proposal starts with when none is given:
// time and materials, base year only.
func DefaultContract() domain.ContractContext {
	return domain.ContractContext{
		ContractType:        domain.ContractTM,
		PeriodOfPerformance: domain.PeriodOfPerformance{BaseYear: true},
	}
}

func convertContract(c *ContractImport) domain.ContractContext {
	out := DefaultContract()
	out.Title = c.Title
	out.Agency = c.Agency
	if c.ContractType != "" {
		out.ContractType = domain.ContractType(strings.ToLower(c.ContractType))
	}
	if pop := c.PeriodOfPerformance; pop != nil {
		if pop.BaseYear != nil {
			out.PeriodOfPerformance.BaseYear = *pop.BaseYear
		}
		if pop.OptionYears != nil {
			out.PeriodOfPerformance.OptionYears = *pop.OptionYears
		}
	}
	return out
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.New().String()
}
