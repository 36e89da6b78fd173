package aggregation

import (
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleElements() []domain.WBSElement {
	return []domain.WBSElement{
		element("1.10", labor(dev, domain.PeriodHours{Base: 200, Option1: 100})),
		element("1.2", labor(pm, domain.PeriodHours{Base: 100}), labor(dev, domain.PeriodHours{Base: 300})),
	}
}

func TestBuildMatrix(t *testing.T) {
	periods := []domain.Period{domain.PeriodBase, domain.PeriodOption1}

	view := BuildMatrix(sampleElements(), roster, periods)

	require.Len(t, view.Elements, 2)
	assert.Equal(t, "1.2", view.Elements[0].Key)
	assert.Equal(t, []float64{400, 0}, view.Elements[0].Hours)
	assert.Equal(t, "1.10", view.Elements[1].Key)
	assert.Equal(t, 300.0, view.Elements[1].Total)

	require.Len(t, view.Roles, 2)
	assert.Equal(t, "Project Manager", view.Roles[0].Label)
	assert.Equal(t, []float64{100, 0}, view.Roles[0].Hours)
	assert.Equal(t, []float64{500, 100}, view.Roles[1].Hours)

	assert.Equal(t, []float64{600, 100}, view.PeriodTotals)
	assert.Equal(t, 700.0, view.GrandTotal)
}

func TestBuildMatrix_RowsAndColumnsAgree(t *testing.T) {
	view := BuildMatrix(sampleElements(), roster, domain.AllPeriods)

	elementSum, roleSum := 0.0, 0.0
	for _, r := range view.Elements {
		elementSum += r.Total
	}
	for _, r := range view.Roles {
		roleSum += r.Total
	}
	assert.Equal(t, view.GrandTotal, elementSum)
	assert.Equal(t, view.GrandTotal, roleSum)
}

func TestBuildMatrix_Empty(t *testing.T) {
	view := BuildMatrix(nil, roster, domain.AllPeriods)

	assert.Empty(t, view.Elements)
	require.Len(t, view.Roles, 2)
	assert.Equal(t, make([]float64, 5), view.Roles[0].Hours)
	assert.Equal(t, 0.0, view.GrandTotal)
}

func TestBuildTimeline(t *testing.T) {
	params := FTEParams{MonthsInPeriod: 12, BillableHoursPerMonth: 100}

	view := BuildTimeline(sampleElements(), roster, []domain.Period{domain.PeriodBase, domain.PeriodOption1}, params)

	require.Len(t, view.Periods, 2)
	base := view.Periods[0]
	require.Len(t, base.Roles, 2)
	assert.InDelta(t, 100.0/1200, base.Roles[0].AnnualFTE, 1e-9)
	assert.InDelta(t, 500.0/1200, base.Roles[1].AnnualFTE, 1e-9)
	require.Len(t, base.System, 12)
	assert.InDelta(t, 600.0/1200, base.System[0], 1e-9)
	assert.InDelta(t, 600.0/1200, base.Peak, 1e-9)

	assert.InDelta(t, 100.0/1200, view.Periods[1].Peak, 1e-9)
}

func TestBuildSummary(t *testing.T) {
	elements := sampleElements()
	elements[0].Confidence = domain.ConfidenceHigh
	opts := SummaryOptions{FTE: FTEParams{MonthsInPeriod: 12, BillableHoursPerMonth: 100}, EscalationRate: 0.1}

	view := BuildSummary(elements, roster, []domain.Period{domain.PeriodBase, domain.PeriodOption1}, opts)

	assert.Equal(t, 2, view.ElementCount)
	assert.Equal(t, 700.0, view.TotalHours)
	// pm: 100*150; dev: 500*100 + 100*110
	assert.InDelta(t, 15000+50000+11000, view.TotalCost, 1e-6)

	require.Len(t, view.Periods, 2)
	assert.Equal(t, 600.0, view.Periods[0].Hours)
	assert.InDelta(t, 65000, view.Periods[0].Cost, 1e-6)
	assert.InDelta(t, 0.5, view.Periods[0].FTE, 1e-9)
	assert.InDelta(t, 11000, view.Periods[1].Cost, 1e-6)

	require.Len(t, view.Roles, 2)
	assert.Equal(t, 600.0, view.Roles[1].Hours)
	assert.InDelta(t, (500.0/1200+100.0/1200)/2, view.Roles[1].AverageFTE, 1e-9)

	assert.Equal(t, 1, view.Confidence[domain.ConfidenceHigh])
	assert.Equal(t, 1, view.Confidence[domain.ConfidenceMedium])
	assert.Equal(t, 0, view.Confidence[domain.ConfidenceLow])
}

func TestBuildSummary_Empty(t *testing.T) {
	view := BuildSummary(nil, nil, domain.AllPeriods, DefaultSummaryOptions())

	assert.Equal(t, 0.0, view.TotalHours)
	assert.Equal(t, 0.0, view.TotalCost)
	assert.Empty(t, view.Roles)
	require.Len(t, view.Periods, 5)
	for _, p := range view.Periods {
		assert.Equal(t, 0.0, p.Hours)
		assert.Equal(t, 0.0, p.PeakFTE)
	}
}

func TestEscalatedRate(t *testing.T) {
	assert.Equal(t, 100.0, EscalatedRate(100, domain.PeriodBase, 0.03))
	assert.InDelta(t, 103.0, EscalatedRate(100, domain.PeriodOption1, 0.03), 1e-9)
	assert.InDelta(t, 106.09, EscalatedRate(100, domain.PeriodOption2, 0.03), 1e-9)
	assert.Equal(t, 100.0, EscalatedRate(100, domain.PeriodOption4, 0))
}
