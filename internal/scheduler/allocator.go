package scheduler

import (
	"fmt"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scope"
)

// ScopeSplit is one scope's share of the contract, by billing band.
// GeneralConditions + Materials + Labor + Retention == Value, and
// MaterialsPurchased + MaterialsStored == Materials.
type ScopeSplit struct {
	Match              scope.Match
	Definition         domain.ScopeDefinition
	Value              domain.Cents
	GeneralConditions  domain.Cents
	Materials          domain.Cents
	MaterialsPurchased domain.Cents
	MaterialsStored    domain.Cents
	Labor              domain.Cents
	Retention          domain.Cents
}

// Band returns the amount in one billing band.
func (s ScopeSplit) Band(b domain.BillingCategory) domain.Cents {
	switch b {
	case domain.BillingGeneralConditions:
		return s.GeneralConditions
	case domain.BillingMaterials:
		return s.Materials
	case domain.BillingLabor:
		return s.Labor
	case domain.BillingRetention:
		return s.Retention
	}
	return 0
}

// Split apportions a contract across its scopes. The scope values always
// sum to ContractValue.
type Split struct {
	ContractValue domain.Cents
	Retention     domain.Cents
	Scopes        []ScopeSplit
	Warnings      []domain.Warning
}

// Total sums the scope values.
func (s Split) Total() domain.Cents {
	var total domain.Cents
	for _, sc := range s.Scopes {
		total += sc.Value
	}
	return total
}

// SplitContract resolves each matched scope's value and divides it into
// billing bands. Retention is a share of the whole contract, allocated to
// scopes in proportion to their value; the remaining base is split by the
// GC / Materials / Labor bands. A zero contract yields no scopes, and a
// non-zero contract without matches is carried by the unclassified
// fallback scope.
func SplitContract(cat *catalog.Catalog, c contract.Contract, matches []scope.Match) (Split, error) {
	split := Split{ContractValue: c.Value}
	if c.Value == 0 {
		return split, nil
	}

	if len(matches) == 0 {
		fallback, warns := scope.Fallback(cat)
		matches = []scope.Match{fallback}
		split.Warnings = append(split.Warnings, warns...)
	}

	defs := make([]domain.ScopeDefinition, len(matches))
	for i, m := range matches {
		def, ok := cat.Scope(m.Category)
		if !ok {
			return Split{}, fmt.Errorf("scope %s has no catalog definition", m.Category)
		}
		defs[i] = def
	}

	values, warns, err := resolveScopeValues(c.Value, matches, defs)
	if err != nil {
		return Split{}, err
	}
	split.Warnings = append(split.Warnings, warns...)

	split.Retention = c.Bands.Retention.Of(c.Value)
	retention := domain.AllocateCents(split.Retention, centsWeights(values))
	storedWeights := []int64{int64(10000 - c.Bands.StoredMaterials), int64(c.Bands.StoredMaterials)}

	for i, m := range matches {
		base := values[i] - retention[i]
		bands := domain.AllocateCents(base, c.Bands.Weights())
		materials := domain.AllocateCents(bands[1], storedWeights)
		split.Scopes = append(split.Scopes, ScopeSplit{
			Match:              m,
			Definition:         defs[i],
			Value:              values[i],
			GeneralConditions:  bands[0],
			Materials:          bands[1],
			MaterialsPurchased: materials[0],
			MaterialsStored:    materials[1],
			Labor:              bands[2],
			Retention:          retention[i],
		})
	}
	return split, nil
}

// resolveScopeValues keeps explicit scope values and spreads the residual
// over unvalued scopes by their typical value. When every scope is valued
// but the values do not total the contract, they are rescaled
// proportionally.
func resolveScopeValues(total domain.Cents, matches []scope.Match, defs []domain.ScopeDefinition) ([]domain.Cents, []domain.Warning, error) {
	values := make([]domain.Cents, len(matches))
	var explicit domain.Cents
	var unvalued []int
	for i, m := range matches {
		if m.Value == nil {
			unvalued = append(unvalued, i)
			continue
		}
		values[i] = *m.Value
		explicit += *m.Value
	}

	if explicit > total {
		verr := &domain.ValidationError{}
		verr.Add("signals", fmt.Sprintf("scope values total %s, exceeding contract value %s", explicit, total))
		return nil, nil, verr
	}

	if len(unvalued) == 0 {
		if explicit == total {
			return values, nil, nil
		}
		rescaled := domain.AllocateCents(total, centsWeights(values))
		warn := domain.Warning{
			Code:    domain.WarnScopeValuesRescaled,
			Message: fmt.Sprintf("scope values total %s; rescaled to contract value %s", explicit, total),
		}
		return rescaled, []domain.Warning{warn}, nil
	}

	weights := make([]int64, len(unvalued))
	for j, i := range unvalued {
		weights[j] = int64(defs[i].TypicalValue)
	}
	shares := domain.AllocateCents(total-explicit, weights)
	for j, i := range unvalued {
		values[i] = shares[j]
	}
	return values, nil, nil
}

func centsWeights(values []domain.Cents) []int64 {
	w := make([]int64, len(values))
	for i, v := range values {
		w[i] = int64(v)
	}
	return w
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
