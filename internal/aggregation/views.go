package aggregation

import (
	"math"
	"sort"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// RoleRef names a role that appears in a view.
type RoleRef struct {
	ID   string
	Name string
	Rate float64
	// Rostered is false for roles that labor estimates reference but the
	// current roster no longer lists.
	Rostered bool
}

// rolesInPlay returns the roster in order followed by any role the elements
// reference that is missing from the roster, sorted by id.
func rolesInPlay(elements []domain.WBSElement, roster []domain.Role) []RoleRef {
	refs := make([]RoleRef, 0, len(roster))
	known := make(map[string]bool, len(roster))
	for _, r := range roster {
		if known[r.ID] {
			continue
		}
		known[r.ID] = true
		refs = append(refs, RoleRef{ID: r.ID, Name: r.Name, Rate: r.HourlyRate, Rostered: true})
	}

	orphans := map[string]string{}
	for _, el := range elements {
		for _, le := range el.LaborEstimates {
			if !known[le.RoleID] {
				if _, seen := orphans[le.RoleID]; !seen || le.RoleName < orphans[le.RoleID] {
					orphans[le.RoleID] = le.RoleName
				}
			}
		}
	}
	ids := make([]string, 0, len(orphans))
	for id := range orphans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		refs = append(refs, RoleRef{ID: id, Name: orphans[id]})
	}
	return refs
}

func roleIDsInPlay(elements []domain.WBSElement, roster []domain.Role) []string {
	refs := rolesInPlay(elements, roster)
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

// MatrixRow is one line of the hours matrix. Hours aligns with the view's
// Periods.
type MatrixRow struct {
	Key   string
	Label string
	Hours []float64
	Total float64
}

// MatrixView is hours by element and by role across periods.
type MatrixView struct {
	Periods      []domain.Period
	Elements     []MatrixRow
	Roles        []MatrixRow
	PeriodTotals []float64
	GrandTotal   float64
}

// BuildMatrix lays out per-element and per-role hours. Element rows are in
// WBS number order.
func BuildMatrix(elements []domain.WBSElement, roster []domain.Role, periods []domain.Period) MatrixView {
	view := MatrixView{
		Periods:      append([]domain.Period(nil), periods...),
		Elements:     []MatrixRow{},
		Roles:        []MatrixRow{},
		PeriodTotals: make([]float64, len(periods)),
	}

	for _, el := range SortedByNumber(elements) {
		row := MatrixRow{Key: el.WBSNumber, Label: el.Title, Hours: make([]float64, len(periods))}
		for i, p := range periods {
			row.Hours[i] = TotalHoursForElementInPeriod(el, p)
		}
		row.Total = sum(row.Hours)
		view.Elements = append(view.Elements, row)
	}

	for _, r := range rolesInPlay(elements, roster) {
		row := MatrixRow{Key: r.ID, Label: r.Name, Hours: make([]float64, len(periods))}
		for i, p := range periods {
			row.Hours[i] = TotalHoursForRoleInPeriod(elements, r.ID, p)
		}
		row.Total = sum(row.Hours)
		view.Roles = append(view.Roles, row)
	}

	for i, p := range periods {
		view.PeriodTotals[i] = TotalHoursForPeriod(elements, p)
	}
	view.GrandTotal = sum(view.PeriodTotals)
	return view
}

// RoleSeries is one role's staffing curve in a period.
type RoleSeries struct {
	Role      RoleRef
	Monthly   []float64
	AnnualFTE float64
}

type TimelinePeriod struct {
	Period domain.Period
	Roles  []RoleSeries
	System []float64
	Peak   float64
}

// TimelineView is monthly FTE per role and for the whole team.
type TimelineView struct {
	Params  FTEParams
	Periods []TimelinePeriod
}

func BuildTimeline(elements []domain.WBSElement, roster []domain.Role, periods []domain.Period, params FTEParams) TimelineView {
	view := TimelineView{Params: params, Periods: make([]TimelinePeriod, 0, len(periods))}
	roles := rolesInPlay(elements, roster)

	for _, p := range periods {
		tp := TimelinePeriod{
			Period: p,
			Roles:  make([]RoleSeries, 0, len(roles)),
			System: SystemMonthlyFTE(elements, roster, p, params),
			Peak:   PeakMonthlyFTE(elements, roster, p, params),
		}
		for _, r := range roles {
			tp.Roles = append(tp.Roles, RoleSeries{
				Role:      r,
				Monthly:   MonthlyFTEByRole(elements, r.ID, p, params),
				AnnualFTE: AnnualFTEByRole(elements, r.ID, p, params),
			})
		}
		view.Periods = append(view.Periods, tp)
	}
	return view
}

// SummaryOptions configures cost and FTE rollups.
type SummaryOptions struct {
	FTE FTEParams
	// EscalationRate compounds role rates per option year (0.03 = 3%).
	EscalationRate float64
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{FTE: DefaultFTEParams(), EscalationRate: 0.03}
}

type PeriodSummary struct {
	Period  domain.Period
	Hours   float64
	Cost    float64
	FTE     float64
	PeakFTE float64
}

type RoleSummary struct {
	Role  RoleRef
	Hours float64
	Cost  float64
	// AverageFTE is the mean annual FTE over the summarized periods.
	AverageFTE float64
}

// SummaryView is the headline totals of an estimate set.
type SummaryView struct {
	ElementCount int
	TotalHours   float64
	TotalCost    float64
	Periods      []PeriodSummary
	Roles        []RoleSummary
	Confidence   map[domain.Confidence]int
}

func BuildSummary(elements []domain.WBSElement, roster []domain.Role, periods []domain.Period, opts SummaryOptions) SummaryView {
	view := SummaryView{
		ElementCount: len(elements),
		Periods:      make([]PeriodSummary, 0, len(periods)),
		Roles:        []RoleSummary{},
		Confidence: map[domain.Confidence]int{
			domain.ConfidenceHigh:   0,
			domain.ConfidenceMedium: 0,
			domain.ConfidenceLow:    0,
		},
	}
	for _, el := range elements {
		view.Confidence[el.Confidence]++
	}

	roles := rolesInPlay(elements, roster)
	periodCosts := make([][]float64, len(periods))
	for _, r := range roles {
		rs := RoleSummary{Role: r}
		hours := make([]float64, 0, len(periods))
		costs := make([]float64, 0, len(periods))
		ftes := make([]float64, 0, len(periods))
		for i, p := range periods {
			h := TotalHoursForRoleInPeriod(elements, r.ID, p)
			c := h * EscalatedRate(r.Rate, p, opts.EscalationRate)
			hours = append(hours, h)
			costs = append(costs, c)
			ftes = append(ftes, opts.FTE.hoursToFTE(h))
			periodCosts[i] = append(periodCosts[i], c)
		}
		rs.Hours = sum(hours)
		rs.Cost = sum(costs)
		if len(periods) > 0 {
			rs.AverageFTE = sum(ftes) / float64(len(periods))
		}
		view.Roles = append(view.Roles, rs)
	}

	periodHours := make([]float64, 0, len(periods))
	for i, p := range periods {
		ps := PeriodSummary{
			Period:  p,
			Hours:   TotalHoursForPeriod(elements, p),
			Cost:    sum(periodCosts[i]),
			PeakFTE: PeakMonthlyFTE(elements, roster, p, opts.FTE),
		}
		ps.FTE = opts.FTE.hoursToFTE(ps.Hours)
		periodHours = append(periodHours, ps.Hours)
		view.Periods = append(view.Periods, ps)
	}
	view.TotalHours = sum(periodHours)

	totalCosts := make([]float64, 0, len(view.Roles))
	for _, rs := range view.Roles {
		totalCosts = append(totalCosts, rs.Cost)
	}
	view.TotalCost = sum(totalCosts)
	return view
}

// EscalatedRate compounds rate once per option year: option k pays
// rate * (1+escalation)^k and the base period pays rate.
func EscalatedRate(rate float64, p domain.Period, escalation float64) float64 {
	k := p.Index()
	if k <= 0 || escalation == 0 {
		return rate
	}
	return rate * math.Pow(1+escalation, float64(k))
}

// SortedByNumber returns a copy of elements ordered by WBS number. Numbers
// that do not parse sort after those that do.
func SortedByNumber(elements []domain.WBSElement) []domain.WBSElement {
	out := append([]domain.WBSElement(nil), elements...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := domain.ParseWBSNumber(out[i].WBSNumber)
		b, bok := domain.ParseWBSNumber(out[j].WBSNumber)
		switch {
		case aok && bok:
			if a != b {
				return a.Less(b)
			}
		case aok != bok:
			return aok
		}
		return out[i].WBSNumber < out[j].WBSNumber
	})
	return out
}
