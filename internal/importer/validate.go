package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// unitAliases maps the spellings contracts and models use onto catalog
// units.
var unitAliases = map[string]domain.Unit{
	"sf": domain.UnitSqft, "sq ft": domain.UnitSqft, "sqft": domain.UnitSqft, "square feet": domain.UnitSqft,
	"lf": domain.UnitLinft, "lin ft": domain.UnitLinft, "linft": domain.UnitLinft, "linear feet": domain.UnitLinft,
	"ea": domain.UnitEach, "each": domain.UnitEach, "units": domain.UnitEach,
	"hr": domain.UnitHour, "hrs": domain.UnitHour, "hour": domain.UnitHour, "hours": domain.UnitHour,
	"set": domain.UnitSet, "sets": domain.UnitSet,
	"day": domain.UnitDay, "days": domain.UnitDay,
	"ls": domain.UnitLumpSum, "lbsum": domain.UnitLumpSum, "lump sum": domain.UnitLumpSum,
}

// NormalizeUnit resolves a quantity key to a catalog unit.
func NormalizeUnit(s string) (domain.Unit, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// ValidateAnalysis checks the analysis for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateAnalysis(a *Analysis) []error {
	var errs []error
	errs = append(errs, validateFinancials(&a.FinancialDetails)...)
	errs = append(errs, validateSchedule(&a.Schedule)...)
	errs = append(errs, validateScope(&a.ScopeOfWork, a.FinancialDetails.ContractValue)...)
	return errs
}

func validateFinancials(f *FinancialDetails) []error {
	var errs []error
	if f.ContractValue == nil {
		errs = append(errs, fmt.Errorf("financial_details.contract_value is required"))
	} else if *f.ContractValue < 0 {
		errs = append(errs, fmt.Errorf("financial_details.contract_value must not be negative"))
	}
	if f.RetentionPercent != nil && (*f.RetentionPercent < 0 || *f.RetentionPercent > 10) {
		errs = append(errs, fmt.Errorf("financial_details.retention_percent %.2f is outside 0-10", *f.RetentionPercent))
	}
	return errs
}

func validateSchedule(s *Schedule) []error {
	var errs []error

	var start domain.Date
	if s.StartDate == "" {
		errs = append(errs, fmt.Errorf("schedule.start_date is required"))
	} else if d, err := domain.ParseDate(s.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("schedule.start_date: invalid date format %q (expected YYYY-MM-DD)", s.StartDate))
	} else {
		start = d
	}

	for _, f := range []struct{ name, value string }{
		{"substantial_completion", s.SubstantialCompletion},
		{"final_completion", s.FinalCompletion},
	} {
		if f.value == "" {
			continue
		}
		d, err := domain.ParseDate(f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("schedule.%s: invalid date format %q (expected YYYY-MM-DD)", f.name, f.value))
			continue
		}
		if !start.IsZero() && !d.After(start) {
			errs = append(errs, fmt.Errorf("schedule.%s %q must be after start_date %q", f.name, f.value, s.StartDate))
		}
	}
	return errs
}

func validateScope(s *ScopeOfWork, total *domain.Cents) []error {
	var errs []error
	var sum domain.Cents
	for i, item := range s.Items {
		field := fmt.Sprintf("scope_of_work.items[%d]", i)
		if strings.TrimSpace(item.Description) == "" && len(item.SpecSections) == 0 {
			errs = append(errs, fmt.Errorf("%s needs a description or spec sections", field))
		}
		for _, key := range sortedKeys(item.Quantities) {
			qty := item.Quantities[key]
			if _, ok := NormalizeUnit(key); !ok {
				errs = append(errs, fmt.Errorf("%s.quantities: unknown unit %q", field, key))
			} else if qty < 0 {
				errs = append(errs, fmt.Errorf("%s.quantities.%s must not be negative", field, key))
			}
		}
		if item.Value != nil {
			if *item.Value < 0 {
				errs = append(errs, fmt.Errorf("%s.value must not be negative", field))
			}
			sum += *item.Value
		}
	}
	if total != nil && *total >= 0 && sum > *total {
		errs = append(errs, fmt.Errorf("scope_of_work item values total %s, more than the contract value %s", sum, *total))
	}
	return errs
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
