package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for a proposal import. Field
// names follow the generation request document so an exported request can be
// imported back.
type ImportSchema struct {
	Proposal        *ProposalImport     `json:"proposal,omitempty"`
	ContractContext *ContractImport     `json:"contractContext,omitempty"`
	Roles           []RoleImport        `json:"availableRoles"`
	Requirements    []RequirementImport `json:"requirements"`
}

// ProposalImport names the proposal the import creates.
type ProposalImport struct {
	Name string `json:"name"`
}

// ContractImport defines the contract the proposal is priced against.
type ContractImport struct {
	Title               string        `json:"title"`
	Agency              string        `json:"agency"`
	ContractType        string        `json:"contractType"`
	PeriodOfPerformance *PeriodImport `json:"periodOfPerformance,omitempty"`
}

type PeriodImport struct {
	BaseYear    *bool `json:"baseYear,omitempty"`
	OptionYears *int  `json:"optionYears,omitempty"`
}

// RoleImport defines a roster role. ID is optional; one is minted when empty.
type RoleImport struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty"`
}

// RequirementImport defines one requirement. Type defaults to "shall".
type RequirementImport struct {
	ID              string `json:"id,omitempty"`
	ReferenceNumber string `json:"referenceNumber"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Type            string `json:"type,omitempty"`
	Category        string `json:"category,omitempty"`
	Source          string `json:"source,omitempty"`
}

// LoadImportSchema reads and parses a proposal import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
