package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestDoc = `{
  "requirements": [
    {"id": "req-1", "referenceNumber": "L.5.1", "title": "Monthly status report", "description": "The contractor shall deliver a monthly status report.", "type": "shall", "category": "reporting", "source": "Section L"}
  ],
  "availableRoles": [
    {"id": "r-pm", "name": "Project Manager", "category": "management"}
  ],
  "existingWbsNumbers": ["1.1"],
  "contractContext": {
    "title": "Modernization", "agency": "GSA", "contractType": "tm",
    "periodOfPerformance": {"baseYear": true, "optionYears": 2}
  }
}`

func TestGenerationRequest_DecodesWireDocument(t *testing.T) {
	var req GenerationRequest
	require.NoError(t, json.Unmarshal([]byte(requestDoc), &req))

	est := req.EstimateRequest()
	require.Len(t, est.Requirements, 1)
	assert.Equal(t, domain.RequirementShall, est.Requirements[0].Type)
	assert.Equal(t, "L.5.1", est.Requirements[0].ReferenceNumber)
	require.Len(t, est.Roles, 1)
	assert.Equal(t, "Project Manager", est.Roles[0].Name)
	assert.Equal(t, []string{"1.1"}, est.ExistingWBSNumbers)
	assert.Equal(t, domain.ContractTM, est.Contract.ContractType)
	assert.Equal(t, 2, est.Contract.PeriodOfPerformance.OptionYears)
}

func TestNewGenerationRequest_EmitsEmptyArrays(t *testing.T) {
	raw, err := json.Marshal(NewGenerationRequest(intelligence.EstimateRequest{}))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"requirements":[]`)
	assert.Contains(t, string(raw), `"availableRoles":[]`)
	assert.Contains(t, string(raw), `"existingWbsNumbers":[]`)
}

func TestNewGenerationSuccess(t *testing.T) {
	res := &intelligence.EstimateResult{
		Elements: []domain.WBSElement{{ID: "wbs-1", WBSNumber: "1.2", Title: "Reporting"}},
		Usage:    &llm.Usage{InputTokens: 120, OutputTokens: 800},
	}

	raw, err := json.Marshal(NewGenerationSuccess(res))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, true, doc["success"])
	assert.Equal(t, false, doc["mock"])
	assert.Len(t, doc["wbsElements"], 1)
	assert.Equal(t, map[string]any{"inputTokens": float64(120), "outputTokens": float64(800)}, doc["usage"])
}

func TestNewGenerationSuccess_MockOmitsUsage(t *testing.T) {
	raw, err := json.Marshal(NewGenerationSuccess(&intelligence.EstimateResult{Mock: true}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"wbsElements":[],"mock":true}`, string(raw))
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		class StatusClass
		http  int
	}{
		{"empty input", &intelligence.GenerationError{Code: intelligence.ErrCodeEmptyInput, Message: "no requirements supplied"}, StatusBadInput, 400},
		{"truncated", &intelligence.GenerationError{Code: intelligence.ErrCodeTruncated, Message: "truncated"}, StatusTruncated, 422},
		{"malformed", &intelligence.GenerationError{Code: intelligence.ErrCodeMalformedJSON, Message: "bad json", Details: "{oops"}, StatusParseError, 502},
		{"no elements", &intelligence.GenerationError{Code: intelligence.ErrCodeEmptyElementSet, Message: "none"}, StatusParseError, 502},
		{"empty response", &intelligence.GenerationError{Code: intelligence.ErrCodeEmptyResponse, Message: "empty"}, StatusParseError, 502},
		{"upstream", &intelligence.GenerationError{Code: intelligence.ErrCodeUpstream, Message: "down"}, StatusUpstreamService, 503},
		{"wrapped", fmt.Errorf("generating: %w", &intelligence.GenerationError{Code: intelligence.ErrCodeTruncated, Message: "truncated"}), StatusTruncated, 422},
		{"untyped", errors.New("boom"), StatusUpstreamService, 503},
		{"unknown requirement", fmt.Errorf("%q: %w", "req-9", service.ErrUnknownRequirement), StatusBadInput, 400},
		{"missing record", fmt.Errorf("proposal p-1: %w", repository.ErrNotFound), StatusBadInput, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, failure := ClassifyFailure(tt.err)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.http, class.HTTPStatus())
			assert.NotEmpty(t, failure.Error)
		})
	}
}

func TestClassifyFailure_FromGenerator(t *testing.T) {
	svc := intelligence.NewEstimateService(nil)

	_, err := svc.Generate(context.Background(), intelligence.EstimateRequest{})
	require.Error(t, err)

	class, failure := ClassifyFailure(err)
	assert.Equal(t, StatusBadInput, class)
	assert.Equal(t, intelligence.ErrEmptyInput.Error(), failure.Error)
}

func TestClassifyFailure_DetailsCarried(t *testing.T) {
	_, failure := ClassifyFailure(&intelligence.GenerationError{Code: intelligence.ErrCodeMalformedJSON, Message: "bad json", Details: "{oops"})

	raw, err := json.Marshal(failure)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"bad json","details":"{oops"}`, string(raw))
}
