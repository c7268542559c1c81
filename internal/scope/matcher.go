// Package scope detects glazing scope categories from extracted contract
// signals and pairs each required material with qualified vendors.
package scope

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
)

// MaxVendorsPerMaterial caps the vendors recommended per material category.
const MaxVendorsPerMaterial = 2

// VendorRef is the slice of vendor data carried into documents.
type VendorRef struct {
	Name          string `json:"name"`
	LeadTimeWeeks int    `json:"lead_time_weeks"`
	Rating        int    `json:"rating"`
	Contact       string `json:"contact,omitempty"`
	Email         string `json:"email,omitempty"`
}

// MaterialMatch is a required material and its recommended vendors.
type MaterialMatch struct {
	Material domain.MaterialCategory `json:"material"`
	Vendors  []VendorRef             `json:"vendors"`
}

// Sourced reports whether at least one vendor was found.
func (m MaterialMatch) Sourced() bool { return len(m.Vendors) > 0 }

// Match is one detected scope category with its evidence.
type Match struct {
	Category     domain.ScopeCategory    `json:"category"`
	Name         string                  `json:"name"`
	Keywords     []string                `json:"keywords,omitempty"`
	SpecSections []string                `json:"spec_sections,omitempty"`
	Signals      []int                   `json:"signals,omitempty"`
	Quantities   map[domain.Unit]float64 `json:"quantities,omitempty"`
	Value        *domain.Cents           `json:"value,omitempty"`
	Materials    []MaterialMatch         `json:"materials"`
	Fallback     bool                    `json:"fallback,omitempty"`
}

// LeadTimeWeeks is the longest lead time among the selected vendors, or
// fallback when no vendor was selected.
func (m Match) LeadTimeWeeks(fallback int) int {
	lead, found := 0, false
	for _, mm := range m.Materials {
		for _, v := range mm.Vendors {
			if !found || v.LeadTimeWeeks > lead {
				lead, found = v.LeadTimeWeeks, true
			}
		}
	}
	if !found {
		return fallback
	}
	return lead
}

// VendorNames returns the selected vendor names for material.
func (m Match) VendorNames(material domain.MaterialCategory) []string {
	for _, mm := range m.Materials {
		if mm.Material != material {
			continue
		}
		names := make([]string, len(mm.Vendors))
		for i, v := range mm.Vendors {
			names[i] = v.Name
		}
		return names
	}
	return nil
}

// AllVendorNames returns every selected vendor once, in material order.
func (m Match) AllVendorNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, mm := range m.Materials {
		for _, v := range mm.Vendors {
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		}
	}
	return out
}

// PrimarySpecSection prefers a matched section over the catalog default.
func (m Match) PrimarySpecSection(def domain.ScopeDefinition) string {
	if len(m.SpecSections) > 0 {
		return m.SpecSections[0]
	}
	return def.PrimarySpecSection()
}

// Result is the matcher output.
type Result struct {
	Matches  []Match          `json:"matches"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
}

// Categories lists the detected categories in order.
func (r Result) Categories() []domain.ScopeCategory {
	out := make([]domain.ScopeCategory, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Category
	}
	return out
}

// RFQPackage is one request-for-quote bundle: a scope's material and the
// vendors to ask.
type RFQPackage struct {
	Scope    domain.ScopeCategory    `json:"scope"`
	Material domain.MaterialCategory `json:"material"`
	Vendors  []VendorRef             `json:"vendors"`
}

// RFQPackages lists every sourced (scope, material) pair.
func (r Result) RFQPackages() []RFQPackage {
	var out []RFQPackage
	for _, m := range r.Matches {
		for _, mm := range m.Materials {
			if !mm.Sourced() {
				continue
			}
			out = append(out, RFQPackage{Scope: m.Category, Material: mm.Material, Vendors: mm.Vendors})
		}
	}
	return out
}

type accumulator struct {
	keywords   []string
	sections   []string
	signals    []int
	quantities map[domain.Unit]float64
	value      *domain.Cents
}

func (a *accumulator) addKeyword(k string) {
	for _, existing := range a.keywords {
		if existing == k {
			return
		}
	}
	a.keywords = append(a.keywords, k)
}

func (a *accumulator) addSection(s string) {
	for _, existing := range a.sections {
		if existing == s {
			return
		}
	}
	a.sections = append(a.sections, s)
}

// MatchScopes detects scope categories. A category is detected when any of
// its keywords is a substring of a signal phrase or any of its spec
// sections equals a signal's section. A signal that evidences several
// categories contributes its quantities and value only to the category
// with the most hits (canonical order breaks ties). The function is pure.
func MatchScopes(cat *catalog.Catalog, signals []contract.ScopeSignal) Result {
	defs := cat.Scopes()
	acc := make(map[domain.ScopeCategory]*accumulator)
	var res Result

	for i, sig := range signals {
		phrases := signalPhrases(sig)
		sections := make(map[string]bool)
		for _, s := range sig.SpecSections {
			if n := catalog.NormalizeSpecSection(s); n != "" {
				sections[n] = true
			}
		}

		primary, best := domain.ScopeCategory(""), 0
		for _, def := range defs {
			var kw, secs []string
			for _, k := range def.Keywords {
				if containsAny(phrases, k) {
					kw = append(kw, k)
				}
			}
			for _, s := range def.SpecSections {
				if sections[s] {
					secs = append(secs, s)
				}
			}
			hits := len(kw) + len(secs)
			if hits == 0 {
				continue
			}
			a := acc[def.Category]
			if a == nil {
				a = &accumulator{quantities: make(map[domain.Unit]float64)}
				acc[def.Category] = a
			}
			for _, k := range kw {
				a.addKeyword(k)
			}
			for _, s := range secs {
				a.addSection(s)
			}
			a.signals = append(a.signals, i)
			if hits > best {
				primary, best = def.Category, hits
			}
		}

		if primary == "" {
			res.Warnings = append(res.Warnings, domain.Warning{
				Code:    domain.WarnUnmatchedScopeCategory,
				Message: fmt.Sprintf("signal %d (%s) matched no scope category", i, describeSignal(sig)),
			})
			continue
		}
		a := acc[primary]
		for unit, qty := range sig.Quantities {
			a.quantities[unit] += qty
		}
		if sig.Value != nil {
			v := *sig.Value
			if a.value != nil {
				v += *a.value
			}
			a.value = &v
		}
	}

	for _, def := range defs {
		a, ok := acc[def.Category]
		if !ok {
			continue
		}
		m := Match{
			Category:     def.Category,
			Name:         def.Category.Label(),
			Keywords:     a.keywords,
			SpecSections: a.sections,
			Signals:      a.signals,
			Value:        a.value,
		}
		if len(a.quantities) > 0 {
			m.Quantities = a.quantities
		}
		var warns []domain.Warning
		m.Materials, warns = SelectVendors(cat, def)
		res.Warnings = append(res.Warnings, warns...)
		res.Matches = append(res.Matches, m)
	}
	return res
}

// SelectVendors picks up to MaxVendorsPerMaterial vendors for each of the
// scope's required materials. Materials with no vendor are kept with an
// empty list and reported.
func SelectVendors(cat *catalog.Catalog, def domain.ScopeDefinition) ([]MaterialMatch, []domain.Warning) {
	out := make([]MaterialMatch, 0, len(def.RequiredMaterials))
	var warns []domain.Warning
	for _, material := range def.RequiredMaterials {
		ranked := cat.VendorsFor(material)
		if len(ranked) > MaxVendorsPerMaterial {
			ranked = ranked[:MaxVendorsPerMaterial]
		}
		mm := MaterialMatch{Material: material, Vendors: make([]VendorRef, len(ranked))}
		for i, v := range ranked {
			mm.Vendors[i] = VendorRef{
				Name:          v.Name,
				LeadTimeWeeks: v.LeadTimeWeeks,
				Rating:        v.Rating,
				Contact:       v.Contact,
				Email:         v.Email,
			}
		}
		if !mm.Sourced() {
			warns = append(warns, domain.Warning{
				Code:     domain.WarnUnmatchedVendorCategory,
				Scope:    def.Category,
				Material: material,
				Message:  fmt.Sprintf("%s: %s unmatched — needs manual sourcing", def.Category.Label(), material.Label()),
			})
		}
		out = append(out, mm)
	}
	return out, warns
}

// Fallback builds the match used when a non-zero contract has no detected
// scope.
func Fallback(cat *catalog.Catalog) (Match, []domain.Warning) {
	def, _ := cat.Scope(domain.ScopeUnclassified)
	m := Match{
		Category: domain.ScopeUnclassified,
		Name:     domain.ScopeUnclassified.Label(),
		Fallback: true,
	}
	var warns []domain.Warning
	m.Materials, warns = SelectVendors(cat, def)
	warns = append([]domain.Warning{{
		Code:    domain.WarnNoScopeDetected,
		Scope:   domain.ScopeUnclassified,
		Message: "no scope category detected; contract value carried as unclassified glazing",
	}}, warns...)
	return m, warns
}

func signalPhrases(sig contract.ScopeSignal) []string {
	out := make([]string, 0, len(sig.Keywords)+1)
	if p := catalog.NormalizePhrase(sig.Description); p != "" {
		out = append(out, p)
	}
	for _, k := range sig.Keywords {
		if p := catalog.NormalizePhrase(k); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(phrases []string, keyword string) bool {
	for _, p := range phrases {
		if strings.Contains(p, keyword) {
			return true
		}
	}
	return false
}

func describeSignal(sig contract.ScopeSignal) string {
	if sig.Description != "" {
		return fmt.Sprintf("%q", sig.Description)
	}
	if len(sig.Keywords) > 0 {
		return fmt.Sprintf("%q", strings.Join(sig.Keywords, ", "))
	}
	if len(sig.SpecSections) > 0 {
		return "sections " + strings.Join(sig.SpecSections, ", ")
	}
	return "empty signal"
}
