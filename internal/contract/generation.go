package contract

import (
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
)

// GenerationRequest is the document a generation batch is requested with.
type GenerationRequest struct {
	Requirements       []domain.Requirement   `json:"requirements"`
	AvailableRoles     []domain.Role          `json:"availableRoles"`
	ExistingWBSNumbers []string               `json:"existingWbsNumbers"`
	ContractContext    domain.ContractContext `json:"contractContext"`
}

// EstimateRequest converts the wire document into the generator's input.
func (r GenerationRequest) EstimateRequest() intelligence.EstimateRequest {
	return intelligence.EstimateRequest{
		Requirements:       r.Requirements,
		Roles:              r.AvailableRoles,
		ExistingWBSNumbers: r.ExistingWBSNumbers,
		Contract:           r.ContractContext,
	}
}

// NewGenerationRequest builds the wire document for an estimate request.
func NewGenerationRequest(req intelligence.EstimateRequest) GenerationRequest {
	return GenerationRequest{
		Requirements:       nonNil(req.Requirements),
		AvailableRoles:     nonNil(req.Roles),
		ExistingWBSNumbers: nonNil(req.ExistingWBSNumbers),
		ContractContext:    req.Contract,
	}
}

// GenerationSuccess is the document returned for a successful batch.
type GenerationSuccess struct {
	Success     bool                `json:"success"`
	WBSElements []domain.WBSElement `json:"wbsElements"`
	Mock        bool                `json:"mock"`
	Usage       *llm.Usage          `json:"usage,omitempty"`
}

func NewGenerationSuccess(res *intelligence.EstimateResult) GenerationSuccess {
	out := GenerationSuccess{Success: true, WBSElements: []domain.WBSElement{}}
	if res == nil {
		return out
	}
	out.WBSElements = nonNil(res.Elements)
	out.Mock = res.Mock
	out.Usage = res.Usage
	return out
}

// GenerationFailure is the document returned for a failed batch.
type GenerationFailure struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
