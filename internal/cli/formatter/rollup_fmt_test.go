package formatter

import (
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleRoster() []domain.Role {
	return []domain.Role{{ID: "r-pm", Name: "Program Manager", HourlyRate: 150}}
}

func TestFormatMatrix(t *testing.T) {
	periods := []domain.Period{domain.PeriodBase, domain.PeriodOption1}
	view := aggregation.BuildMatrix(sampleElements(), sampleRoster(), periods)

	out := FormatMatrix(view)
	assert.Contains(t, out, "HOURS BY WBS ELEMENT")
	assert.Contains(t, out, "HOURS BY ROLE")
	assert.Contains(t, out, "Program Manager")
	assert.Contains(t, out, "228")
}

func TestFormatTimeline(t *testing.T) {
	view := aggregation.BuildTimeline(sampleElements(), sampleRoster(), []domain.Period{domain.PeriodBase}, aggregation.DefaultFTEParams())

	out := FormatTimeline(view)
	assert.Contains(t, out, "12 months per period")
	assert.Contains(t, out, "BASE  PEAK")
	assert.Contains(t, out, "M01")
	assert.Contains(t, out, "M12")
}

func TestFormatSummary(t *testing.T) {
	view := aggregation.BuildSummary(sampleElements(), sampleRoster(), []domain.Period{domain.PeriodBase}, aggregation.DefaultSummaryOptions())

	out := FormatSummary(view)
	assert.Contains(t, out, "ESTIMATE SUMMARY")
	assert.Contains(t, out, "18000.00")
	assert.Contains(t, out, "● high")
}

func TestRoleLabel_MarksUnrostered(t *testing.T) {
	assert.Equal(t, "PM", roleLabel(aggregation.RoleRef{Name: "PM", Rostered: true}))
	assert.Contains(t, roleLabel(aggregation.RoleRef{Name: "Ghost"}), "(not on roster)")
}
