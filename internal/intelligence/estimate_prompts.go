package intelligence

import (
	"encoding/json"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

const estimateSystemPrompt = `You are a federal proposal pricing analyst. You build Work Breakdown Structure (WBS)
elements with labor-hour estimates from statement-of-work requirements.

Return ONLY a JSON object of the form {"wbsElements": [...]}. No prose, no markdown.

Each element:
{
  "wbsNumber": "<major>.<minor>, continuing after the existing numbers you are given",
  "title": "short name of the work",
  "sowReference": "SOW paragraph or requirement reference number",
  "why": "the requirement or obligation that drives this work",
  "what": "the work performed and deliverables produced",
  "notIncluded": "explicit exclusions",
  "assumptions": ["..."],
  "estimateMethod": "engineering" | "analogous" | "parametric" | "level-of-effort" | "expert",
  "laborEstimates": [
    {
      "roleId": "MUST be an id from the roles list",
      "roleName": "the matching role name",
      "hoursByPeriod": {"base": 0, "option1": 0, "option2": 0, "option3": 0, "option4": 0},
      "rationale": "how the hours were derived",
      "confidence": "high" | "medium" | "low"
    }
  ],
  "risks": [{"description": "...", "likelihood": "high|medium|low", "impact": "high|medium|low", "mitigation": "..."}],
  "dependencies": [{"predecessorId": "wbsNumber of the element that must finish first", "type": "finish-to-start"}],
  "linkedRequirementIds": ["ids of the requirements this element satisfies"],
  "confidence": "high" | "medium" | "low"
}

Rules:
- Use only the roles provided. Never invent a role.
- Give hours only for the base year and the option years the contract declares; other periods are 0.
- "shall" requirements are mandatory and usually need more effort than "should", "may" or "will".
- Group closely related requirements into one element when they are delivered together, and
  express sequencing between elements with dependencies.
- Every requirement must be linked to at least one element.`

type promptRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type promptPayload struct {
	Contract           domain.ContractContext `json:"contractContext"`
	ActivePeriods      []domain.Period        `json:"activePeriods"`
	Roles              []promptRole           `json:"roles"`
	ExistingWBSNumbers []string               `json:"existingWbsNumbers"`
	Requirements       []domain.Requirement   `json:"requirements"`
}

// buildEstimatePrompt embeds the roster (ids and names only), the contract
// context and every requirement into one user prompt.
func buildEstimatePrompt(req EstimateRequest) (string, error) {
	roles := make([]promptRole, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, promptRole{ID: r.ID, Name: r.Name})
	}
	existing := req.ExistingWBSNumbers
	if existing == nil {
		existing = []string{}
	}

	payload, err := json.MarshalIndent(promptPayload{
		Contract:           req.Contract,
		ActivePeriods:      req.Contract.ActivePeriods(),
		Roles:              roles,
		ExistingWBSNumbers: existing,
		Requirements:       req.Requirements,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding estimate prompt: %w", err)
	}
	return fmt.Sprintf("Estimate the following %d requirement(s).\n\n%s", len(req.Requirements), payload), nil
}
