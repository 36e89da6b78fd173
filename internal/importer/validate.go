package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Roles) == 0 && len(schema.Requirements) == 0 {
		errs = append(errs, errors.New("import contains no availableRoles or requirements"))
	}
	if schema.Proposal != nil && strings.TrimSpace(schema.Proposal.Name) == "" {
		errs = append(errs, errors.New("proposal.name is required"))
	}
	errs = append(errs, validateContract(schema.ContractContext)...)
	errs = append(errs, validateRoles(schema.Roles)...)
	errs = append(errs, validateRequirements(schema.Requirements)...)

	return errs
}

func validateContract(c *ContractImport) []error {
	if c == nil {
		return nil
	}
	var errs []error

	if c.ContractType != "" && !domain.ValidContractTypes[domain.ContractType(strings.ToLower(c.ContractType))] {
		errs = append(errs, fmt.Errorf("contractContext.contractType: invalid value %q (expected tm, ffp or hybrid)", c.ContractType))
	}
	if pop := c.PeriodOfPerformance; pop != nil && pop.OptionYears != nil {
		if n := *pop.OptionYears; n < 0 || n > domain.MaxOptionYears {
			errs = append(errs, fmt.Errorf("contractContext.periodOfPerformance.optionYears must be between 0 and %d, got %d", domain.MaxOptionYears, n))
		}
	}

	return errs
}

func validateRoles(roles []RoleImport) []error {
	var errs []error
	ids := make(map[string]bool)
	names := make(map[string]bool)

	for i, r := range roles {
		prefix := fmt.Sprintf("availableRoles[%d]", i)

		name := strings.TrimSpace(r.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if names[name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate role %q", prefix, name))
		}
		names[name] = true

		if r.ID != "" {
			if ids[r.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, r.ID))
			}
			ids[r.ID] = true
		}
		if r.HourlyRate != nil && *r.HourlyRate < 0 {
			errs = append(errs, fmt.Errorf("%s.hourlyRate must not be negative", prefix))
		}
	}

	return errs
}

func validateRequirements(reqs []RequirementImport) []error {
	var errs []error
	ids := make(map[string]bool)
	refs := make(map[string]bool)

	for i, r := range reqs {
		prefix := fmt.Sprintf("requirements[%d]", i)

		if strings.TrimSpace(r.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if r.Type != "" && !domain.ValidRequirementTypes[domain.RequirementType(strings.ToLower(r.Type))] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q (expected shall, should, may or will)", prefix, r.Type))
		}
		if r.ID != "" {
			if ids[r.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, r.ID))
			}
			ids[r.ID] = true
		}
		if ref := strings.TrimSpace(r.ReferenceNumber); ref != "" {
			if refs[ref] {
				errs = append(errs, fmt.Errorf("%s.referenceNumber: duplicate reference %q", prefix, ref))
			}
			refs[ref] = true
		}
	}

	return errs
}
