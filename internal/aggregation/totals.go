// Package aggregation rolls an estimate set up into hours, cost and FTE.
// Every function is pure: the roster and period list are passed in, and an
// empty element list produces zeros.
package aggregation

import (
	"sort"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// TotalHoursForPeriod sums every labor estimate's hours for p.
func TotalHoursForPeriod(elements []domain.WBSElement, p domain.Period) float64 {
	var vals []float64
	for _, el := range elements {
		for _, le := range el.LaborEstimates {
			vals = append(vals, le.HoursByPeriod.Get(p))
		}
	}
	return sum(vals)
}

// TotalHoursForRoleInPeriod sums the hours of one role in p.
func TotalHoursForRoleInPeriod(elements []domain.WBSElement, roleID string, p domain.Period) float64 {
	var vals []float64
	for _, el := range elements {
		for _, le := range el.LaborEstimates {
			if le.RoleID == roleID {
				vals = append(vals, le.HoursByPeriod.Get(p))
			}
		}
	}
	return sum(vals)
}

// TotalHoursForElementInPeriod sums one element's labor estimates in p.
func TotalHoursForElementInPeriod(el domain.WBSElement, p domain.Period) float64 {
	vals := make([]float64, 0, len(el.LaborEstimates))
	for _, le := range el.LaborEstimates {
		vals = append(vals, le.HoursByPeriod.Get(p))
	}
	return sum(vals)
}

// TotalHoursForRole sums one role across periods.
func TotalHoursForRole(elements []domain.WBSElement, roleID string, periods []domain.Period) float64 {
	vals := make([]float64, 0, len(periods))
	for _, p := range periods {
		vals = append(vals, TotalHoursForRoleInPeriod(elements, roleID, p))
	}
	return sum(vals)
}

// TotalHours sums every element across periods.
func TotalHours(elements []domain.WBSElement, periods []domain.Period) float64 {
	vals := make([]float64, 0, len(periods))
	for _, p := range periods {
		vals = append(vals, TotalHoursForPeriod(elements, p))
	}
	return sum(vals)
}

// sum adds values in ascending order so the result does not depend on the
// order elements were supplied in.
func sum(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return total
}
