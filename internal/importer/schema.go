// Package importer reads a contract analysis, the structured summary of a
// glazing contract produced by the extraction step or by hand, and turns it
// into a project input record.
package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// Analysis is the top-level JSON structure of a contract analysis.
type Analysis struct {
	ProjectInfo      ProjectInfo      `json:"project_info"`
	FinancialDetails FinancialDetails `json:"financial_details"`
	ScopeOfWork      ScopeOfWork      `json:"scope_of_work"`
	Schedule         Schedule         `json:"schedule"`
	KeyRequirements  []string         `json:"key_requirements,omitempty"`
	RiskFactors      []string         `json:"risk_factors,omitempty"`
}

// ProjectInfo identifies the project and the parties.
type ProjectInfo struct {
	ProjectName       string `json:"project_name"`
	Location          string `json:"location,omitempty"`
	Client            string `json:"client,omitempty"`
	GeneralContractor string `json:"general_contractor,omitempty"`
	ContractNumber    string `json:"contract_number,omitempty"`
}

// FinancialDetails carries the contract sum and payment terms.
type FinancialDetails struct {
	ContractValue    *domain.Cents `json:"contract_value"`
	PaymentTerms     string        `json:"payment_terms,omitempty"`
	RetentionPercent *float64      `json:"retention_percent,omitempty"`
}

// ScopeOfWork lists the specification sections in the contract and the
// individual scope items found in it.
type ScopeOfWork struct {
	SpecSections []string    `json:"spec_sections,omitempty"`
	Items        []ScopeItem `json:"items"`
}

// ScopeItem is one described piece of glazing work. Quantities are keyed by
// unit; common abbreviations such as "sf" and "ea" are accepted.
type ScopeItem struct {
	Description  string             `json:"description"`
	Keywords     []string           `json:"keywords,omitempty"`
	SpecSections []string           `json:"spec_sections,omitempty"`
	Quantities   map[string]float64 `json:"quantities,omitempty"`
	Value        *domain.Cents      `json:"value,omitempty"`
}

// Schedule holds the contract dates as YYYY-MM-DD strings.
type Schedule struct {
	StartDate             string   `json:"start_date"`
	SubstantialCompletion string   `json:"substantial_completion,omitempty"`
	FinalCompletion       string   `json:"final_completion,omitempty"`
	Milestones            []string `json:"milestones,omitempty"`
}

// ParseAnalysis decodes a contract analysis document.
func ParseAnalysis(data []byte) (*Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing contract analysis: %w", err)
	}
	return &a, nil
}

// LoadAnalysis reads and parses a contract analysis JSON file.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAnalysis(data)
}
