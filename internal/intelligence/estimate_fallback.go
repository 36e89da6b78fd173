package intelligence

import (
	"fmt"
	"math"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
)

const (
	mockShallBaseHours = 120.0
	mockOtherBaseHours = 60.0
	// mockOptionDecay is the share of base hours lost per option year.
	mockOptionDecay = 0.1
	mockMaxRoles    = 3
)

// mockRoleWeights scales the lead role's hours for the first three roster roles.
var mockRoleWeights = [mockMaxRoles]float64{1.0, 0.5, 0.25}

// DeterministicEstimates builds one element per requirement without calling
// the generation service. Text and hours depend only on the inputs; newID is
// the only source of variation between calls.
func DeterministicEstimates(req EstimateRequest, newID func() string) []domain.WBSElement {
	numbers := generation.NextNumbers(req.ExistingWBSNumbers, len(req.Requirements))
	optionYears := req.Contract.DeclaredOptionYears()

	roles := req.Roles
	if len(roles) > mockMaxRoles {
		roles = roles[:mockMaxRoles]
	}

	elements := make([]domain.WBSElement, 0, len(req.Requirements))
	for i, r := range req.Requirements {
		ref := domain.CoalesceStr(r.ReferenceNumber, fmt.Sprintf("REQ-%d", i+1))
		title := domain.CoalesceStr(r.Title, ref)

		el := domain.WBSElement{
			ID:           newID(),
			WBSNumber:    numbers[i],
			Title:        title,
			SOWReference: ref,
			Why:          fmt.Sprintf("%s is a %s requirement from %s: %s", ref, requirementLabel(r.Type), domain.CoalesceStr(r.Source, "the SOW"), domain.CoalesceStr(r.Description, title)),
			What:         fmt.Sprintf("Perform and document the work needed to satisfy %s, %s.", ref, title),
			NotIncluded:  fmt.Sprintf("Work not traceable to %s.", ref),
			Assumptions: []string{
				"Hours come from the offline estimator and need analyst review.",
				fmt.Sprintf("Priced for %d option year(s).", optionYears),
			},
			EstimateMethod:       domain.MethodLevelOfEffort,
			LaborEstimates:       []domain.LaborEstimate{},
			Risks:                []domain.Risk{},
			Dependencies:         []domain.Dependency{},
			LinkedRequirementIDs: []string{},
			Confidence:           domain.ConfidenceLow,
		}
		if r.ID != "" {
			el.LinkedRequirementIDs = append(el.LinkedRequirementIDs, r.ID)
		}

		base := mockBaseHours(r.Type)
		for j, role := range roles {
			le := domain.LaborEstimate{
				RoleID:     role.ID,
				RoleName:   role.Name,
				Rationale:  fmt.Sprintf("Offline heuristic: %s requirement, %.0f%% of lead effort.", requirementLabel(r.Type), mockRoleWeights[j]*100),
				Confidence: domain.ConfidenceLow,
			}
			for k, p := range domain.AllPeriods {
				le.HoursByPeriod.Set(p, mockPeriodHours(base*mockRoleWeights[j], k, optionYears))
			}
			el.LaborEstimates = append(el.LaborEstimates, le)
		}

		el.RecalculateTotal()
		elements = append(elements, el)
	}
	return elements
}

func mockBaseHours(t domain.RequirementType) float64 {
	if strings.EqualFold(string(t), string(domain.RequirementShall)) {
		return mockShallBaseHours
	}
	return mockOtherBaseHours
}

// mockPeriodHours returns whole hours for period index k (0 = base).
func mockPeriodHours(base float64, k, optionYears int) float64 {
	if k > optionYears {
		return 0
	}
	return math.Round(base * (1 - mockOptionDecay*float64(k)))
}

func requirementLabel(t domain.RequirementType) string {
	if t == "" {
		return "unclassified"
	}
	return strings.ToLower(string(t))
}
