package aggregation

import "github.com/CityFriends/truebid-calculator-sub000/internal/domain"

const (
	DefaultMonthsInPeriod        = 12
	DefaultBillableHoursPerMonth = 160.0
)

// FTEParams converts hours to full-time equivalents.
type FTEParams struct {
	MonthsInPeriod        int
	BillableHoursPerMonth float64
}

func DefaultFTEParams() FTEParams {
	return FTEParams{
		MonthsInPeriod:        DefaultMonthsInPeriod,
		BillableHoursPerMonth: DefaultBillableHoursPerMonth,
	}
}

func (f FTEParams) months() int {
	if f.MonthsInPeriod < 0 {
		return 0
	}
	return f.MonthsInPeriod
}

// hoursToFTE is zero whenever the params cannot produce a rate.
func (f FTEParams) hoursToFTE(hours float64) float64 {
	denom := float64(f.months()) * f.BillableHoursPerMonth
	if denom <= 0 {
		return 0
	}
	return hours / denom
}

// MonthlyFTEByRole spreads the role's period hours evenly across the months
// of the period and converts each month to FTE. The series has one entry per
// month.
func MonthlyFTEByRole(elements []domain.WBSElement, roleID string, p domain.Period, params FTEParams) []float64 {
	series := make([]float64, params.months())
	if len(series) == 0 || params.BillableHoursPerMonth <= 0 {
		return series
	}
	monthly := TotalHoursForRoleInPeriod(elements, roleID, p) / float64(len(series)) / params.BillableHoursPerMonth
	for m := range series {
		series[m] = monthly
	}
	return series
}

// AnnualFTEByRole is periodHours / (monthsInPeriod * billableHoursPerMonth).
func AnnualFTEByRole(elements []domain.WBSElement, roleID string, p domain.Period, params FTEParams) float64 {
	return params.hoursToFTE(TotalHoursForRoleInPeriod(elements, roleID, p))
}

// SystemMonthlyFTE sums every role's monthly series month by month.
func SystemMonthlyFTE(elements []domain.WBSElement, roles []domain.Role, p domain.Period, params FTEParams) []float64 {
	system := make([]float64, params.months())
	for _, id := range roleIDsInPlay(elements, roles) {
		for m, v := range MonthlyFTEByRole(elements, id, p, params) {
			system[m] += v
		}
	}
	return system
}

// PeakMonthlyFTE is the largest month of the system series, not the sum of
// each role's own peak.
func PeakMonthlyFTE(elements []domain.WBSElement, roles []domain.Role, p domain.Period, params FTEParams) float64 {
	peak := 0.0
	for _, v := range SystemMonthlyFTE(elements, roles, p, params) {
		if v > peak {
			peak = v
		}
	}
	return peak
}
