// Package contract defines the project input record consumed by the
// document generators and its validated form.
package contract

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// ScopeSignal is one piece of extracted scope evidence: a keyword hit, a
// spec section reference, quantities and an optional section value.
type ScopeSignal struct {
	Description  string                  `json:"description"`
	Keywords     []string                `json:"keywords,omitempty"`
	SpecSections []string                `json:"spec_sections,omitempty"`
	Quantities   map[domain.Unit]float64 `json:"quantities,omitempty"`
	Value        *domain.Cents           `json:"value,omitempty"`
}

// Bands are the SOV percentages. GeneralConditions, Materials and Labor are
// shares of the non-retention base and must total 100%; Retention is a
// share of the whole contract. StoredMaterials is the part of the
// Materials band billed at MaterialsStored rather than MaterialsPurchased.
type Bands struct {
	GeneralConditions domain.BasisPoints `json:"general_conditions" yaml:"general_conditions"`
	Materials         domain.BasisPoints `json:"materials" yaml:"materials"`
	Labor             domain.BasisPoints `json:"labor" yaml:"labor"`
	Retention         domain.BasisPoints `json:"retention" yaml:"retention"`
	StoredMaterials   domain.BasisPoints `json:"stored_materials" yaml:"stored_materials"`
}

// DefaultBands returns the midpoint bands: 12 / 55 / 33 with 5% retention
// and 15% of materials billed when stored.
func DefaultBands() Bands {
	return Bands{
		GeneralConditions: 1200,
		Materials:         5500,
		Labor:             3300,
		Retention:         500,
		StoredMaterials:   1500,
	}
}

type bandRange struct {
	field    string
	value    domain.BasisPoints
	min, max domain.BasisPoints
}

// Validate records every band outside its allowed range.
func (b Bands) Validate(verr *domain.ValidationError, prefix string) {
	ranges := []bandRange{
		{"general_conditions", b.GeneralConditions, 1000, 1500},
		{"materials", b.Materials, 5000, 6000},
		{"labor", b.Labor, 2500, 3500},
		{"retention", b.Retention, 0, 1000},
		{"stored_materials", b.StoredMaterials, 0, 10000},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			verr.Add(prefix+r.field, fmt.Sprintf("%s is outside %s-%s", r.value, r.min, r.max))
		}
	}
	if sum := b.GeneralConditions + b.Materials + b.Labor; sum != 10000 {
		verr.Add(prefix+"bands", fmt.Sprintf("general conditions, materials and labor must total 100.00%%, got %s", sum))
	}
}

// Weights returns the GC/Materials/Labor split weights in that order.
func (b Bands) Weights() []int64 {
	return []int64{int64(b.GeneralConditions), int64(b.Materials), int64(b.Labor)}
}

// ProjectInput is the externally produced project record. Pointer fields
// distinguish "missing" from zero.
type ProjectInput struct {
	Name          string        `json:"name"`
	Client        string        `json:"client,omitempty"`
	Location      string        `json:"location,omitempty"`
	ContractValue *domain.Cents `json:"contract_value"`
	StartDate     *domain.Date  `json:"start_date"`
	Bands         *Bands        `json:"bands,omitempty"`
	Signals       []ScopeSignal `json:"signals"`
}

// Contract is a validated ProjectInput.
type Contract struct {
	Name      string
	Client    string
	Location  string
	Value     domain.Cents
	StartDate domain.Date
	Bands     Bands
	Signals   []ScopeSignal
}

// Resolve validates the input and applies defaults. Any violation is
// reported as a *domain.ValidationError wrapping domain.ErrInvalidInput.
func (in ProjectInput) Resolve(defaults Bands) (Contract, error) {
	verr := &domain.ValidationError{}

	if in.ContractValue == nil {
		verr.Add("contract_value", "is required")
	} else if *in.ContractValue < 0 {
		verr.Add("contract_value", "must not be negative")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		verr.Add("start_date", "is required")
	}

	bands := defaults
	if in.Bands != nil {
		bands = *in.Bands
	}
	bands.Validate(verr, "bands.")

	for i, sig := range in.Signals {
		field := fmt.Sprintf("signals[%d]", i)
		if sig.Value != nil && *sig.Value < 0 {
			verr.Add(field+".value", "must not be negative")
		}
		for _, unit := range SortedUnits(sig.Quantities) {
			qty := sig.Quantities[unit]
			if !domain.ValidUnits[unit] {
				verr.Add(fmt.Sprintf("%s.quantities.%s", field, unit), "unknown unit")
			} else if qty < 0 {
				verr.Add(fmt.Sprintf("%s.quantities.%s", field, unit), "must not be negative")
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return Contract{}, err
	}

	return Contract{
		Name:      domain.CoalesceStr(in.Name, "Untitled Project"),
		Client:    in.Client,
		Location:  in.Location,
		Value:     *in.ContractValue,
		StartDate: *in.StartDate,
		Bands:     bands,
		Signals:   in.Signals,
	}, nil
}

// SortedUnits returns the quantity units in lexical order.
func SortedUnits(q map[domain.Unit]float64) []domain.Unit {
	units := make([]domain.Unit, 0, len(q))
	for u := range q {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}
