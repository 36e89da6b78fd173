package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
)

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// normalizeContract fills defaults and rejects values the rollups cannot
// price.
func normalizeContract(c *domain.ContractContext) error {
	if c.ContractType == "" {
		c.ContractType = domain.ContractTM
	}
	c.ContractType = domain.ContractType(strings.ToLower(string(c.ContractType)))
	if !domain.ValidContractTypes[c.ContractType] {
		return fmt.Errorf("invalid contract type %q", c.ContractType)
	}
	n := c.PeriodOfPerformance.OptionYears
	if n < 0 || n > domain.MaxOptionYears {
		return fmt.Errorf("option years must be between 0 and %d, got %d", domain.MaxOptionYears, n)
	}
	c.PeriodOfPerformance.BaseYear = true
	return nil
}

// resolveRosterRole matches ref as an id first, then as a name.
func resolveRosterRole(ref string, roster []domain.Role) (domain.Role, error) {
	ref = strings.TrimSpace(ref)
	role, ok := generation.ResolveRole(generation.RoleRef{RoleID: ref, RoleName: ref}, roster)
	if !ok {
		return domain.Role{}, fmt.Errorf("%q: %w", ref, ErrUnknownRole)
	}
	return role, nil
}

// allocationBase is every number the proposal holds plus its high-water
// mark, so allocation never reuses a deleted number.
func allocationBase(ctx context.Context, elements repository.WBSElementRepo, seq repository.WBSSequenceRepo, proposalID string) ([]string, error) {
	numbers, err := elements.ListNumbers(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	high, ok, err := seq.HighWater(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if ok {
		numbers = append(numbers, high.String())
	}
	return numbers, nil
}
