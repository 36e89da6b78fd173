package generation

import (
	"fmt"
	"math"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/google/uuid"
)

// NormalizeContext carries the closed-world inputs for one normalization.
type NormalizeContext struct {
	Roster         []domain.Role
	FallbackNumber string
}

// Normalizer coerces untrusted candidate records into schema-valid elements.
//
// Default table, applied when a field is missing or has the wrong type:
//
//	id                    NewID()
//	wbsNumber             FallbackNumber (also when not "major.minor" with both >= 1)
//	title, sowReference,
//	why, what, notIncluded ""
//	assumptions           [] (non-string entries dropped)
//	estimateMethod        "engineering" (also for unknown methods)
//	confidence            "medium"
//	laborEstimates[]      dropped unless the role resolves against the roster
//	  hoursByPeriod.<p>   0; negative or non-numeric values become 0
//	  confidence          "medium"
//	risks[].id            "risk-N" from a per-call counter
//	risks[].likelihood,
//	risks[].impact        "medium"
//	dependencies[].id     "dep-N" from a per-call counter
//	dependencies[].type   "finish-to-start"
//	linkedRequirementIds  [] (non-string entries dropped)
//	totalHours            always recomputed from retained labor estimates
type Normalizer struct {
	NewID func() string
}

// NewNormalizer returns a Normalizer that assigns element ids with uuid.
func NewNormalizer() *Normalizer {
	return &Normalizer{NewID: uuid.NewString}
}

// Normalize never fails. A candidate that is not an object yields a
// minimally valid element carrying only an id and the fallback number.
func (n *Normalizer) Normalize(raw any, ctx NormalizeContext) domain.WBSElement {
	rec, _ := raw.(map[string]any)

	el := domain.WBSElement{
		ID:                   n.newID(),
		WBSNumber:            ctx.FallbackNumber,
		Title:                str(rec, "title"),
		SOWReference:         str(rec, "sowReference"),
		Why:                  str(rec, "why"),
		What:                 str(rec, "what"),
		NotIncluded:          str(rec, "notIncluded"),
		Assumptions:          strList(rec, "assumptions"),
		EstimateMethod:       domain.MethodEngineering,
		LaborEstimates:       []domain.LaborEstimate{},
		Risks:                []domain.Risk{},
		Dependencies:         []domain.Dependency{},
		LinkedRequirementIDs: strList(rec, "linkedRequirementIds"),
		Confidence:           confidence(rec, "confidence"),
	}

	if num := strings.TrimSpace(str(rec, "wbsNumber")); ValidNumber(num) {
		el.WBSNumber = num
	}
	if m := domain.EstimateMethod(str(rec, "estimateMethod")); domain.ValidEstimateMethods[m] {
		el.EstimateMethod = m
	}

	for _, item := range list(rec, "laborEstimates") {
		le, ok := laborEstimate(item, ctx.Roster)
		if !ok {
			continue
		}
		el.LaborEstimates = mergeLabor(el.LaborEstimates, le)
	}

	ids := newIDCounter()
	for _, item := range list(rec, "risks") {
		r, ok := item.(map[string]any)
		if !ok {
			continue
		}
		el.Risks = append(el.Risks, domain.Risk{
			ID:          ids.claim(str(r, "id"), "risk"),
			Description: str(r, "description"),
			Likelihood:  riskLevel(r, "likelihood"),
			Impact:      riskLevel(r, "impact"),
			Mitigation:  str(r, "mitigation"),
		})
	}
	for _, item := range list(rec, "dependencies") {
		d, ok := item.(map[string]any)
		if !ok {
			continue
		}
		el.Dependencies = append(el.Dependencies, domain.Dependency{
			ID:            ids.claim(str(d, "id"), "dep"),
			PredecessorID: str(d, "predecessorId"),
			Type:          domain.DependencyFinishToStart,
		})
	}

	el.RecalculateTotal()
	return el
}

func (n *Normalizer) newID() string {
	if n == nil || n.NewID == nil {
		return uuid.NewString()
	}
	return n.NewID()
}

func laborEstimate(item any, roster []domain.Role) (domain.LaborEstimate, bool) {
	rec, ok := item.(map[string]any)
	if !ok {
		return domain.LaborEstimate{}, false
	}
	role, ok := ResolveRole(RoleRef{RoleID: str(rec, "roleId"), RoleName: str(rec, "roleName")}, roster)
	if !ok {
		return domain.LaborEstimate{}, false
	}

	le := domain.LaborEstimate{
		RoleID:     role.ID,
		RoleName:   role.Name,
		Rationale:  str(rec, "rationale"),
		Confidence: confidence(rec, "confidence"),
	}
	hours, _ := rec["hoursByPeriod"].(map[string]any)
	for _, p := range domain.AllPeriods {
		le.HoursByPeriod.Set(p, domain.HoursFromAny(hours[string(p)]))
	}
	return le, true
}

// mergeLabor folds a second line for the same role into the first one so an
// element carries at most one labor estimate per role.
func mergeLabor(existing []domain.LaborEstimate, le domain.LaborEstimate) []domain.LaborEstimate {
	for i := range existing {
		if existing[i].RoleID != le.RoleID {
			continue
		}
		for _, p := range domain.AllPeriods {
			sum := existing[i].HoursByPeriod.Get(p) + le.HoursByPeriod.Get(p)
			if math.IsInf(sum, 1) {
				sum = math.MaxFloat64
			}
			existing[i].HoursByPeriod.Set(p, sum)
		}
		if existing[i].Rationale == "" {
			existing[i].Rationale = le.Rationale
		}
		return existing
	}
	return append(existing, le)
}

// idCounter hands out nested record ids that are unique within one
// normalization pass. Supplied ids are kept unless already taken.
type idCounter struct {
	used map[string]bool
	next map[string]int
}

func newIDCounter() *idCounter {
	return &idCounter{used: map[string]bool{}, next: map[string]int{}}
}

func (c *idCounter) claim(supplied, prefix string) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" && !c.used[supplied] {
		c.used[supplied] = true
		return supplied
	}
	for {
		c.next[prefix]++
		id := fmt.Sprintf("%s-%d", prefix, c.next[prefix])
		if !c.used[id] {
			c.used[id] = true
			return id
		}
	}
}

func str(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func list(rec map[string]any, key string) []any {
	l, _ := rec[key].([]any)
	return l
}

func strList(rec map[string]any, key string) []string {
	out := []string{}
	for _, item := range list(rec, key) {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func confidence(rec map[string]any, key string) domain.Confidence {
	c := domain.Confidence(strings.ToLower(str(rec, key)))
	if domain.ValidConfidences[c] {
		return c
	}
	return domain.ConfidenceMedium
}

func riskLevel(rec map[string]any, key string) domain.RiskLevel {
	l := domain.RiskLevel(strings.ToLower(str(rec, key)))
	if domain.ValidRiskLevels[l] {
		return l
	}
	return domain.RiskMedium
}
