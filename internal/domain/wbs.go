package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LaborEstimate is the hours one roster role contributes to a WBS element.
type LaborEstimate struct {
	RoleID        string      `json:"roleId"`
	RoleName      string      `json:"roleName"`
	HoursByPeriod PeriodHours `json:"hoursByPeriod"`
	Rationale     string      `json:"rationale"`
	Confidence    Confidence  `json:"confidence"`
}

type Risk struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Likelihood  RiskLevel `json:"likelihood"`
	Impact      RiskLevel `json:"impact"`
	Mitigation  string    `json:"mitigation"`
}

type Dependency struct {
	ID            string         `json:"id"`
	PredecessorID string         `json:"predecessorId"`
	Type          DependencyType `json:"type"`
}

// WBSElement is one priced unit of work in the estimate set.
type WBSElement struct {
	ID                   string          `json:"id"`
	ProposalID           string          `json:"-"`
	WBSNumber            string          `json:"wbsNumber"`
	Title                string          `json:"title"`
	SOWReference         string          `json:"sowReference"`
	Why                  string          `json:"why"`
	What                 string          `json:"what"`
	NotIncluded          string          `json:"notIncluded"`
	Assumptions          []string        `json:"assumptions"`
	EstimateMethod       EstimateMethod  `json:"estimateMethod"`
	LaborEstimates       []LaborEstimate `json:"laborEstimates"`
	Risks                []Risk          `json:"risks"`
	Dependencies         []Dependency    `json:"dependencies"`
	LinkedRequirementIDs []string        `json:"linkedRequirementIds"`
	TotalHours           float64         `json:"totalHours"`
	Confidence           Confidence      `json:"confidence"`
	CreatedAt            time.Time       `json:"-"`
	UpdatedAt            time.Time       `json:"-"`
}

// RecalculateTotal derives TotalHours from the labor estimates.
func (e *WBSElement) RecalculateTotal() {
	total := 0.0
	for _, le := range e.LaborEstimates {
		total += le.HoursByPeriod.Total()
	}
	e.TotalHours = total
}

// SetLaborHours sets the hours of role in period, adding a labor estimate
// for the role if it has none yet. Negative hours clamp to zero.
func (e *WBSElement) SetLaborHours(role Role, p Period, hours float64) {
	for i := range e.LaborEstimates {
		if e.LaborEstimates[i].RoleID == role.ID {
			e.LaborEstimates[i].HoursByPeriod.Set(p, hours)
			e.RecalculateTotal()
			return
		}
	}
	le := LaborEstimate{
		RoleID:     role.ID,
		RoleName:   role.Name,
		Confidence: ConfidenceMedium,
	}
	le.HoursByPeriod.Set(p, hours)
	e.LaborEstimates = append(e.LaborEstimates, le)
	e.RecalculateTotal()
}

// RemoveRole drops the labor estimate for roleID. Reports whether one existed.
func (e *WBSElement) RemoveRole(roleID string) bool {
	for i := range e.LaborEstimates {
		if e.LaborEstimates[i].RoleID == roleID {
			e.LaborEstimates = append(e.LaborEstimates[:i], e.LaborEstimates[i+1:]...)
			e.RecalculateTotal()
			return true
		}
	}
	return false
}

// HasRequirement reports whether reqID is already linked.
func (e *WBSElement) HasRequirement(reqID string) bool {
	for _, id := range e.LinkedRequirementIDs {
		if id == reqID {
			return true
		}
	}
	return false
}

// NextRiskID returns a risk id not yet used on the element.
func (e *WBSElement) NextRiskID() string {
	used := make(map[string]bool, len(e.Risks))
	for _, r := range e.Risks {
		used[r.ID] = true
	}
	for n := len(e.Risks) + 1; ; n++ {
		id := fmt.Sprintf("risk-%d", n)
		if !used[id] {
			return id
		}
	}
}

// WBSNumber is the parsed "major.minor" form of a WBS number.
type WBSNumber struct {
	Major int
	Minor int
}

// ParseWBSNumber parses "major.minor" where both parts are non-negative
// integers. ok is false for anything else.
func ParseWBSNumber(s string) (n WBSNumber, ok bool) {
	major, minor, found := strings.Cut(strings.TrimSpace(s), ".")
	if !found {
		return WBSNumber{}, false
	}
	ma, err := strconv.Atoi(major)
	if err != nil || ma < 0 || strings.HasPrefix(major, "+") {
		return WBSNumber{}, false
	}
	mi, err := strconv.Atoi(minor)
	if err != nil || mi < 0 || strings.HasPrefix(minor, "+") {
		return WBSNumber{}, false
	}
	return WBSNumber{Major: ma, Minor: mi}, true
}

// Less orders by major then minor.
func (n WBSNumber) Less(other WBSNumber) bool {
	if n.Major != other.Major {
		return n.Major < other.Major
	}
	return n.Minor < other.Minor
}

func (n WBSNumber) String() string {
	return fmt.Sprintf("%d.%d", n.Major, n.Minor)
}
