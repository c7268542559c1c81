// Package budget expands a contract's scopes into a cost-coded internal
// budget.
package budget

import (
	"fmt"
	"math"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
)

// RetentionCode is the cost code of the project-level retention line.
const RetentionCode = "RET-000"

// Line is one cost-coded budget entry.
type Line struct {
	Scope           domain.ScopeCategory    `json:"scope,omitempty"`
	Code            string                  `json:"code"`
	Description     string                  `json:"description"`
	SpecSection     string                  `json:"spec_section,omitempty"`
	CostCategory    domain.CostCategory     `json:"cost_category,omitempty"`
	BillingCategory domain.BillingCategory  `json:"billing_category"`
	Material        domain.MaterialCategory `json:"material,omitempty"`
	Unit            domain.Unit             `json:"unit,omitempty"`
	Quantity        float64                 `json:"quantity,omitempty"`
	UnitRate        domain.Cents            `json:"unit_rate,omitempty"`
	Amount          domain.Cents            `json:"amount"`
	Vendors         []string                `json:"vendors,omitempty"`
	Unclassified    bool                    `json:"unclassified,omitempty"`
}

// Total is an amount rolled up under one key.
type Total struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Amount  domain.Cents       `json:"amount"`
	Percent domain.BasisPoints `json:"percent"`
}

// Totals are the budget roll-ups. Every slice sums to Grand.
type Totals struct {
	ByBillingCategory []Total      `json:"by_billing_category"`
	ByCostCategory    []Total      `json:"by_cost_category"`
	ByScope           []Total      `json:"by_scope"`
	Grand             domain.Cents `json:"grand"`
}

// Document is the internal budget.
type Document struct {
	Project       string           `json:"project"`
	ContractValue domain.Cents     `json:"contract_value"`
	Lines         []Line           `json:"lines"`
	Totals        Totals           `json:"totals"`
	Warnings      []domain.Warning `json:"warnings,omitempty"`
}

// Sum adds the amounts of the lines keep accepts.
func (d Document) Sum(keep func(Line) bool) domain.Cents {
	var total domain.Cents
	for _, l := range d.Lines {
		if keep(l) {
			total += l.Amount
		}
	}
	return total
}

// MaterialTotals returns the scope's materials amount per material
// category, in line order. Unclassified materials are keyed by the empty
// category.
func (d Document) MaterialTotals(sc domain.ScopeCategory) ([]domain.MaterialCategory, map[domain.MaterialCategory]domain.Cents) {
	var order []domain.MaterialCategory
	amounts := make(map[domain.MaterialCategory]domain.Cents)
	for _, l := range d.Lines {
		if l.Scope != sc || l.BillingCategory != domain.BillingMaterials {
			continue
		}
		if _, seen := amounts[l.Material]; !seen {
			order = append(order, l.Material)
		}
		amounts[l.Material] += l.Amount
	}
	return order, amounts
}

// Generate builds the budget for the contract and its matched scopes.
func Generate(cat *catalog.Catalog, c contract.Contract, matches []scope.Match) (Document, error) {
	split, err := scheduler.SplitContract(cat, c, matches)
	if err != nil {
		return Document{}, err
	}
	return Build(cat, c, split)
}

// Build expands an existing split into cost-coded lines.
func Build(cat *catalog.Catalog, c contract.Contract, split scheduler.Split) (Document, error) {
	doc := Document{
		Project:       c.Name,
		ContractValue: c.Value,
		Warnings:      append([]domain.Warning(nil), split.Warnings...),
	}

	for _, sc := range split.Scopes {
		lines, warns := scopeLines(cat, sc)
		doc.Lines = append(doc.Lines, lines...)
		doc.Warnings = append(doc.Warnings, warns...)
	}
	if split.Retention != 0 {
		doc.Lines = append(doc.Lines, Line{
			Code:            RetentionCode,
			Description:     "Retention",
			BillingCategory: domain.BillingRetention,
			Amount:          split.Retention,
		})
	}

	doc.Totals = summarize(doc.Lines, split)
	if doc.Totals.Grand != c.Value {
		return Document{}, fmt.Errorf("budget totals %s, want contract value %s", doc.Totals.Grand, c.Value)
	}
	return doc, nil
}

func scopeLines(cat *catalog.Catalog, sc scheduler.ScopeSplit) ([]Line, []domain.Warning) {
	category := sc.Match.Category
	section := sc.Match.PrimarySpecSection(sc.Definition)
	var warns []domain.Warning

	unclassified := func(label string, cost domain.CostCategory, billing domain.BillingCategory, material domain.MaterialCategory, amount domain.Cents) Line {
		warns = append(warns, domain.Warning{
			Code:     domain.WarnUnclassifiedCost,
			Scope:    category,
			Material: material,
			Message:  fmt.Sprintf("%s: no cost code for %s; budgeted as unclassified", category.Label(), label),
		})
		return Line{
			Scope:           category,
			Code:            unclassifiedCode(cost),
			Description:     "Unclassified — " + label,
			SpecSection:     section,
			CostCategory:    cost,
			BillingCategory: billing,
			Material:        material,
			Amount:          amount,
			Vendors:         sc.Match.VendorNames(material),
			Unclassified:    true,
		}
	}

	var out []Line

	// General conditions over the indirect codes.
	if codes := cat.ScopeCodes(category, domain.CostIndirect); len(codes) > 0 {
		out = append(out, bandLines(sc, section, domain.BillingGeneralConditions, sc.GeneralConditions, codeRefs(codes, ""))...)
	} else {
		out = append(out, unclassified(domain.CostIndirect.Label(), domain.CostIndirect, domain.BillingGeneralConditions, "", sc.GeneralConditions))
	}

	// Materials over (material, code) pairs. A material without codes gets
	// one placeholder slot that shares the band like any other line.
	var refs []codeRef
	for _, material := range sc.Definition.RequiredMaterials {
		codes := cat.MaterialCodes(category, material)
		if len(codes) == 0 {
			refs = append(refs, codeRef{material: material, placeholder: true})
			continue
		}
		refs = append(refs, codeRefs(codes, material)...)
	}
	if len(refs) == 0 {
		out = append(out, unclassified(domain.BillingMaterials.Label(), "", domain.BillingMaterials, "", sc.Materials))
	}
	for _, l := range bandLines(sc, section, domain.BillingMaterials, sc.Materials, refs) {
		if l.Code == "" {
			l = unclassified(l.Material.Label(), l.Material.CostCategory(), domain.BillingMaterials, l.Material, l.Amount)
		}
		out = append(out, l)
	}

	// Labor over the labor codes.
	if codes := cat.ScopeCodes(category, domain.CostLabor); len(codes) > 0 {
		out = append(out, bandLines(sc, section, domain.BillingLabor, sc.Labor, codeRefs(codes, ""))...)
	} else {
		out = append(out, unclassified(domain.CostLabor.Label(), domain.CostLabor, domain.BillingLabor, "", sc.Labor))
	}

	for _, mm := range sc.Match.Materials {
		if !mm.Sourced() {
			warns = append(warns, domain.Warning{
				Code:     domain.WarnUnmatchedVendorCategory,
				Scope:    category,
				Material: mm.Material,
				Message:  fmt.Sprintf("%s: %s unmatched — needs manual sourcing", category.Label(), mm.Material.Label()),
			})
		}
	}
	return out, warns
}

type codeRef struct {
	code        domain.CostCode
	material    domain.MaterialCategory
	placeholder bool
}

func codeRefs(codes []domain.CostCode, material domain.MaterialCategory) []codeRef {
	out := make([]codeRef, len(codes))
	for i, cc := range codes {
		out[i] = codeRef{code: cc, material: material}
	}
	return out
}

// bandLines divides amount across refs by quantity x unit rate when every
// ref has a quantity for its unit, and evenly otherwise.
func bandLines(sc scheduler.ScopeSplit, section string, billing domain.BillingCategory, amount domain.Cents, refs []codeRef) []Line {
	weights := make([]int64, len(refs))
	quantified := true
	for i, r := range refs {
		qty := sc.Match.Quantities[r.code.Unit]
		if r.placeholder || qty <= 0 {
			quantified = false
			break
		}
		weights[i] = int64(math.Round(qty * float64(r.code.UnitRate)))
	}
	if !quantified {
		for i := range weights {
			weights[i] = 1
		}
	}
	shares := domain.AllocateCents(amount, weights)

	out := make([]Line, len(refs))
	for i, r := range refs {
		if r.placeholder {
			out[i] = Line{Material: r.material, Amount: shares[i]}
			continue
		}
		l := Line{
			Scope:           sc.Match.Category,
			Code:            r.code.Code,
			Description:     r.code.Description,
			SpecSection:     section,
			CostCategory:    r.code.Category,
			BillingCategory: billing,
			Material:        r.material,
			Unit:            r.code.Unit,
			UnitRate:        r.code.UnitRate,
			Amount:          shares[i],
		}
		if quantified {
			l.Quantity = sc.Match.Quantities[r.code.Unit]
		}
		if r.material != "" {
			l.Vendors = sc.Match.VendorNames(r.material)
		}
		out[i] = l
	}
	return out
}

func unclassifiedCode(cost domain.CostCategory) string {
	if cost == "" {
		return "UNC-000"
	}
	return "UNC-" + string(cost)
}

func summarize(lines []Line, split scheduler.Split) Totals {
	var t Totals
	for _, l := range lines {
		t.Grand += l.Amount
	}

	for _, b := range domain.AllBillingCategories() {
		var amount domain.Cents
		for _, l := range lines {
			if l.BillingCategory == b {
				amount += l.Amount
			}
		}
		t.ByBillingCategory = append(t.ByBillingCategory, Total{string(b), b.Label(), amount, domain.ShareOf(amount, t.Grand)})
	}

	costs := domain.AllCostCategories()
	for _, cc := range costs {
		var amount domain.Cents
		for _, l := range lines {
			if l.CostCategory == cc {
				amount += l.Amount
			}
		}
		if amount != 0 {
			t.ByCostCategory = append(t.ByCostCategory, Total{string(cc), cc.Label(), amount, domain.ShareOf(amount, t.Grand)})
		}
	}
	// Retention and unclassified materials carry no cost category.
	var other domain.Cents
	for _, l := range lines {
		if l.CostCategory == "" {
			other += l.Amount
		}
	}
	if other != 0 {
		t.ByCostCategory = append(t.ByCostCategory, Total{"OTHER", "Retention / Unclassified", other, domain.ShareOf(other, t.Grand)})
	}

	// Scope totals include each scope's share of retention.
	for _, sc := range split.Scopes {
		t.ByScope = append(t.ByScope, Total{string(sc.Match.Category), sc.Match.Category.Label(), sc.Value, domain.ShareOf(sc.Value, t.Grand)})
	}
	return t
}
