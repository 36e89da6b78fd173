package formatter

import (
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/stretchr/testify/assert"
)

func sampleElements() []domain.WBSElement {
	return []domain.WBSElement{
		{
			WBSNumber:      "1.1",
			Title:          "Service desk operations",
			EstimateMethod: domain.MethodEngineering,
			Confidence:     domain.ConfidenceHigh,
			Why:            "Tier 1 support is required for all users.",
			LaborEstimates: []domain.LaborEstimate{
				{RoleID: "r-pm", RoleName: "Program Manager", HoursByPeriod: domain.PeriodHours{Base: 120, Option1: 108}},
			},
			Risks: []domain.Risk{
				{ID: "R-1", Description: "Ticket volume spikes", Likelihood: domain.RiskHigh, Impact: domain.RiskMedium, Mitigation: "Surge staffing"},
			},
			Assumptions: []string{"Government furnishes the ticketing tool"},
			TotalHours:  228,
		},
		{WBSNumber: "1.2", Title: "Reporting", Confidence: domain.ConfidenceLow, TotalHours: 0},
		{WBSNumber: "2.1", Title: "Transition", Confidence: domain.ConfidenceMedium, TotalHours: 40.5},
	}
}

func TestFormatElementList(t *testing.T) {
	out := FormatElementList(sampleElements())

	assert.Contains(t, out, "WORK BREAKDOWN")
	assert.Contains(t, out, "Service desk operations")
	assert.Contains(t, out, "3 elements")
	assert.Contains(t, out, "268.5 h")
}

func TestFormatElementList_Empty(t *testing.T) {
	assert.Contains(t, FormatElementList(nil), "No WBS elements")
}

func TestFormatElementTree_GroupsByMajor(t *testing.T) {
	out := FormatElementTree(sampleElements())

	assert.Contains(t, out, "[ 228 h ]")
	assert.Contains(t, out, "└─ 1.2  Reporting")
	assert.Contains(t, out, "└─ 2.1  Transition")
	assert.Contains(t, out, "[ 40.5 h ]")
}

func TestFormatElement(t *testing.T) {
	el := sampleElements()[0]
	out := FormatElement(el, []domain.Period{domain.PeriodBase, domain.PeriodOption1})

	assert.Contains(t, out, "Tier 1 support")
	assert.Contains(t, out, "Program Manager")
	assert.Contains(t, out, "OY1")
	assert.NotContains(t, out, "OY2")
	assert.Contains(t, out, "Ticket volume spikes")
	assert.Contains(t, out, "mitigation: Surge staffing")
	assert.Contains(t, out, "Government furnishes the ticketing tool")
	assert.NotContains(t, out, "NOT INCLUDED")
}

func TestFormatGenerationResult(t *testing.T) {
	res := &intelligence.EstimateResult{Elements: sampleElements()[:1], Mock: true}

	out := FormatGenerationResult(res, false)
	assert.Contains(t, out, "1 element from offline estimator")
	assert.Contains(t, out, "dry run")

	res.Mock = false
	res.Model = "claude-test"
	out = FormatGenerationResult(res, true)
	assert.Contains(t, out, "claude-test")
	assert.NotContains(t, out, "dry run")
}
