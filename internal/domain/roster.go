package domain

import "time"

// Role is a labor category on the proposal roster.
type Role struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourlyRate,omitempty"`
}

// Requirement is a statement of work obligation that drives estimation.
type Requirement struct {
	ID              string          `json:"id"`
	ReferenceNumber string          `json:"referenceNumber"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Type            RequirementType `json:"type"`
	Category        string          `json:"category,omitempty"`
	Source          string          `json:"source,omitempty"`
}

// ContractContext describes the contract an estimate set is priced against.
type ContractContext struct {
	Title               string              `json:"title"`
	Agency              string              `json:"agency"`
	ContractType        ContractType        `json:"contractType"`
	PeriodOfPerformance PeriodOfPerformance `json:"periodOfPerformance"`
}

type PeriodOfPerformance struct {
	BaseYear    bool `json:"baseYear"`
	OptionYears int  `json:"optionYears"`
}

// DeclaredOptionYears clamps OptionYears into 0..MaxOptionYears.
func (c ContractContext) DeclaredOptionYears() int {
	n := c.PeriodOfPerformance.OptionYears
	if n < 0 {
		return 0
	}
	if n > MaxOptionYears {
		return MaxOptionYears
	}
	return n
}

// ActivePeriods returns the base period followed by each declared option
// year, in canonical order.
func (c ContractContext) ActivePeriods() []Period {
	return append([]Period(nil), AllPeriods[:1+c.DeclaredOptionYears()]...)
}

// Proposal is the persisted container for a roster, requirements and the
// estimate set generated against them.
type Proposal struct {
	ID        string
	Name      string
	Contract  ContractContext
	CreatedAt time.Time
	UpdatedAt time.Time
}
