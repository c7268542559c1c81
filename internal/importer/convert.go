package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
)

// Convert transforms a validated Analysis into a project input record.
// Call ValidateAnalysis first; Convert assumes the analysis is valid.
func Convert(a *Analysis) (contract.ProjectInput, error) {
	start, err := domain.ParseDate(a.Schedule.StartDate)
	if err != nil {
		return contract.ProjectInput{}, fmt.Errorf("parsing start_date: %w", err)
	}

	in := contract.ProjectInput{
		Name:          strings.TrimSpace(a.ProjectInfo.ProjectName),
		Client:        domain.CoalesceStr(a.ProjectInfo.Client, a.ProjectInfo.GeneralContractor),
		Location:      a.ProjectInfo.Location,
		ContractValue: a.FinancialDetails.ContractValue,
		StartDate:     &start,
	}

	if pct := a.FinancialDetails.RetentionPercent; pct != nil {
		bands := contract.DefaultBands()
		bands.Retention = domain.BasisPoints(math.Round(*pct * 100))
		in.Bands = &bands
	}

	covered := make(map[string]bool)
	for _, item := range a.ScopeOfWork.Items {
		sig := contract.ScopeSignal{
			Description:  strings.TrimSpace(item.Description),
			Keywords:     item.Keywords,
			SpecSections: item.SpecSections,
			Value:        item.Value,
		}
		if len(item.Quantities) > 0 {
			sig.Quantities = make(map[domain.Unit]float64, len(item.Quantities))
			for key, qty := range item.Quantities {
				unit, ok := NormalizeUnit(key)
				if !ok {
					return contract.ProjectInput{}, fmt.Errorf("scope item %q: unknown unit %q", item.Description, key)
				}
				sig.Quantities[unit] += qty
			}
		}
		for _, s := range item.SpecSections {
			covered[catalog.NormalizeSpecSection(s)] = true
		}
		in.Signals = append(in.Signals, sig)
	}

	// Contract-level sections no item mentions still count as evidence.
	var loose []string
	for _, s := range a.ScopeOfWork.SpecSections {
		if !covered[catalog.NormalizeSpecSection(s)] {
			loose = append(loose, s)
			covered[catalog.NormalizeSpecSection(s)] = true
		}
	}
	if len(loose) > 0 {
		in.Signals = append(in.Signals, contract.ScopeSignal{
			Description:  "Contract specification sections",
			SpecSections: loose,
		})
	}
	return in, nil
}
