// Package catalog holds the static reference tables: vendors, cost codes,
// material-to-code mapping, scope definitions and standard submittals. A Catalog is loaded once
// and never mutated; accessors hand out copies.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// document is the on-disk shape; each YAML file fills any subset of it.
type document struct {
	Vendors    []domain.Vendor               `yaml:"vendors"`
	CostCodes  []domain.CostCode             `yaml:"cost_codes"`
	Materials  []domain.MaterialDefinition   `yaml:"materials"`
	Scopes     []domain.ScopeDefinition      `yaml:"scopes"`
	Submittals []domain.SubmittalRequirement `yaml:"submittals"`
}

// Catalog is the immutable set of reference tables.
type Catalog struct {
	vendors    []domain.Vendor
	codes      []domain.CostCode
	codeIndex  map[string]int
	materials  map[domain.MaterialCategory]domain.MaterialDefinition
	scopes     map[domain.ScopeCategory]domain.ScopeDefinition
	submittals []domain.SubmittalRequirement
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
})

// Default returns the built-in catalog, parsed on first use.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// LoadDir loads every *.yaml file in dir, replacing the built-in tables.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog directory %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads and validates every *.yaml file at the root of fsys, in
// lexical order.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing catalog files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(names)

	var merged document
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path.Base(name), err)
		}
		merged.Vendors = append(merged.Vendors, doc.Vendors...)
		merged.CostCodes = append(merged.CostCodes, doc.CostCodes...)
		merged.Materials = append(merged.Materials, doc.Materials...)
		merged.Scopes = append(merged.Scopes, doc.Scopes...)
		merged.Submittals = append(merged.Submittals, doc.Submittals...)
	}
	return build(merged)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		vendors:    doc.Vendors,
		codes:      doc.CostCodes,
		codeIndex:  make(map[string]int, len(doc.CostCodes)),
		materials:  make(map[domain.MaterialCategory]domain.MaterialDefinition),
		scopes:     make(map[domain.ScopeCategory]domain.ScopeDefinition),
		submittals: doc.Submittals,
	}

	var errs []error
	for i, cc := range doc.CostCodes {
		if cc.Code == "" {
			errs = append(errs, fmt.Errorf("cost_codes[%d]: code is required", i))
			continue
		}
		if _, dup := c.codeIndex[cc.Code]; dup {
			errs = append(errs, fmt.Errorf("cost code %s is defined twice", cc.Code))
			continue
		}
		c.codeIndex[cc.Code] = i
		errs = append(errs, validateCostCode(cc)...)
	}

	seenVendor := make(map[string]bool)
	for i, v := range doc.Vendors {
		key := strings.ToLower(v.Name)
		if seenVendor[key] {
			errs = append(errs, fmt.Errorf("vendor %q is defined twice", v.Name))
		}
		seenVendor[key] = true
		errs = append(errs, validateVendor(i, v)...)
	}

	for _, m := range doc.Materials {
		if !m.Category.Valid() {
			errs = append(errs, fmt.Errorf("unknown material category %q", m.Category))
			continue
		}
		if _, dup := c.materials[m.Category]; dup {
			errs = append(errs, fmt.Errorf("material %s is defined twice", m.Category))
			continue
		}
		for _, code := range m.CostCodes {
			cc, ok := c.lookup(code)
			if !ok {
				errs = append(errs, fmt.Errorf("material %s references unknown cost code %s", m.Category, code))
				continue
			}
			if cc.Category != m.Category.CostCategory() {
				errs = append(errs, fmt.Errorf("material %s cost code %s is %s, want %s",
					m.Category, code, cc.Category, m.Category.CostCategory()))
			}
		}
		c.materials[m.Category] = m
	}
	for _, m := range domain.AllMaterialCategories() {
		if _, ok := c.materials[m]; !ok {
			errs = append(errs, fmt.Errorf("material %s is not defined", m))
		}
	}

	for _, s := range doc.Scopes {
		if !s.Category.Valid() {
			errs = append(errs, fmt.Errorf("unknown scope category %q", s.Category))
			continue
		}
		if _, dup := c.scopes[s.Category]; dup {
			errs = append(errs, fmt.Errorf("scope %s is defined twice", s.Category))
			continue
		}
		errs = append(errs, c.validateScope(s)...)
		c.scopes[s.Category] = normalizeScope(s)
	}
	for _, s := range domain.AllScopeCategories() {
		if _, ok := c.scopes[s]; !ok {
			errs = append(errs, fmt.Errorf("scope %s is not defined", s))
		}
	}

	for i, r := range doc.Submittals {
		errs = append(errs, validateSubmittal(i, r)...)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

func validateCostCode(cc domain.CostCode) []error {
	var errs []error
	if !cc.Category.Valid() {
		errs = append(errs, fmt.Errorf("cost code %s: unknown category %q", cc.Code, cc.Category))
	}
	if !domain.ValidUnits[cc.Unit] {
		errs = append(errs, fmt.Errorf("cost code %s: unknown unit %q", cc.Code, cc.Unit))
	}
	if cc.UnitRate < 0 {
		errs = append(errs, fmt.Errorf("cost code %s: unit rate must not be negative", cc.Code))
	}
	return errs
}

func validateVendor(i int, v domain.Vendor) []error {
	var errs []error
	if v.Name == "" {
		errs = append(errs, fmt.Errorf("vendors[%d]: name is required", i))
	}
	if v.Rating < 1 || v.Rating > 5 {
		errs = append(errs, fmt.Errorf("vendor %q: rating %d must be between 1 and 5", v.Name, v.Rating))
	}
	if v.LeadTimeWeeks < 0 {
		errs = append(errs, fmt.Errorf("vendor %q: lead time must not be negative", v.Name))
	}
	if len(v.Materials) == 0 {
		errs = append(errs, fmt.Errorf("vendor %q: at least one material is required", v.Name))
	}
	for _, m := range v.Materials {
		if !m.Valid() {
			errs = append(errs, fmt.Errorf("vendor %q: unknown material %q", v.Name, m))
		}
	}
	return errs
}

func validateSubmittal(i int, r domain.SubmittalRequirement) []error {
	var errs []error
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, fmt.Errorf("submittals[%d]: description is required", i))
	}
	if !r.Category.Valid() {
		errs = append(errs, fmt.Errorf("submittals[%d]: unknown category %q", i, r.Category))
	}
	if r.SpecSection != "" && len(NormalizeSpecSection(r.SpecSection)) != 6 {
		errs = append(errs, fmt.Errorf("submittals[%d]: spec section %q is not a six-digit CSI code", i, r.SpecSection))
	}
	if len(r.Scopes) == 0 {
		errs = append(errs, fmt.Errorf("submittals[%d]: at least one scope is required", i))
	}
	for _, s := range r.Scopes {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("submittals[%d]: unknown scope %q", i, s))
		}
	}
	return errs
}

func (c *Catalog) validateScope(s domain.ScopeDefinition) []error {
	var errs []error
	for _, m := range s.RequiredMaterials {
		if !m.Valid() {
			errs = append(errs, fmt.Errorf("scope %s: unknown material %q", s.Category, m))
		}
	}
	for _, code := range s.CostCodes {
		if _, ok := c.lookup(code); !ok {
			errs = append(errs, fmt.Errorf("scope %s: unknown cost code %s", s.Category, code))
		}
	}
	ranges := []struct {
		name string
		r    domain.WeekRange
	}{
		{"lead_time_weeks", s.LeadTime},
		{"install_weeks", s.InstallWeeks},
	}
	for _, rr := range ranges {
		if rr.r.Min < 0 || rr.r.Max < rr.r.Min {
			errs = append(errs, fmt.Errorf("scope %s: %s range %d-%d is invalid", s.Category, rr.name, rr.r.Min, rr.r.Max))
		}
	}
	if s.SubmittalWeeks < 0 || s.StorageWeeks < 0 {
		errs = append(errs, fmt.Errorf("scope %s: week durations must not be negative", s.Category))
	}
	if s.TypicalValue < 0 {
		errs = append(errs, fmt.Errorf("scope %s: typical value must not be negative", s.Category))
	}
	return errs
}

func normalizeScope(s domain.ScopeDefinition) domain.ScopeDefinition {
	kw := make([]string, 0, len(s.Keywords))
	for _, k := range s.Keywords {
		if k = NormalizePhrase(k); k != "" {
			kw = append(kw, k)
		}
	}
	s.Keywords = kw
	secs := make([]string, 0, len(s.SpecSections))
	for _, sec := range s.SpecSections {
		if sec = NormalizeSpecSection(sec); sec != "" {
			secs = append(secs, sec)
		}
	}
	s.SpecSections = secs
	return s
}

// NormalizePhrase lower-cases and collapses whitespace.
func NormalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeSpecSection strips spaces and punctuation from a CSI code so
// "08 41 13", "08-41-13" and "084113" compare equal.
func NormalizeSpecSection(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *Catalog) lookup(code string) (domain.CostCode, bool) {
	i, ok := c.codeIndex[code]
	if !ok {
		return domain.CostCode{}, false
	}
	return c.codes[i], true
}

// Vendors returns every vendor in file order.
func (c *Catalog) Vendors() []domain.Vendor {
	out := make([]domain.Vendor, len(c.vendors))
	for i, v := range c.vendors {
		out[i] = cloneVendor(v)
	}
	return out
}

// CostCodes returns every cost code in file order.
func (c *Catalog) CostCodes() []domain.CostCode {
	out := make([]domain.CostCode, len(c.codes))
	copy(out, c.codes)
	return out
}

// CostCode looks up a single code.
func (c *Catalog) CostCode(code string) (domain.CostCode, bool) {
	return c.lookup(code)
}

// Scope returns the definition for a scope category.
func (c *Catalog) Scope(category domain.ScopeCategory) (domain.ScopeDefinition, bool) {
	s, ok := c.scopes[category]
	if !ok {
		return domain.ScopeDefinition{}, false
	}
	return cloneScope(s), true
}

// Scopes returns every detectable scope definition in canonical order. The
// unclassified fallback is excluded.
func (c *Catalog) Scopes() []domain.ScopeDefinition {
	var out []domain.ScopeDefinition
	for _, cat := range domain.AllScopeCategories() {
		if cat == domain.ScopeUnclassified {
			continue
		}
		if s, ok := c.scopes[cat]; ok {
			out = append(out, cloneScope(s))
		}
	}
	return out
}

// VendorsFor returns the vendors carrying material, best first: rating
// descending, then lead time ascending, then name.
func (c *Catalog) VendorsFor(material domain.MaterialCategory) []domain.Vendor {
	var out []domain.Vendor
	for _, v := range c.vendors {
		if v.Supplies(material) {
			out = append(out, cloneVendor(v))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].LeadTimeWeeks != out[j].LeadTimeWeeks {
			return out[i].LeadTimeWeeks < out[j].LeadTimeWeeks
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MaterialCodes returns the cost codes that budget material within scope,
// in material definition order.
func (c *Catalog) MaterialCodes(scope domain.ScopeCategory, material domain.MaterialCategory) []domain.CostCode {
	def, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	var out []domain.CostCode
	for _, code := range c.materials[material].CostCodes {
		if !def.HasCostCode(code) {
			continue
		}
		if cc, ok := c.lookup(code); ok {
			out = append(out, cc)
		}
	}
	return out
}

// ScopeCodes returns the scope's cost codes in one cost category, in scope
// definition order.
func (c *Catalog) ScopeCodes(scope domain.ScopeCategory, category domain.CostCategory) []domain.CostCode {
	def, ok := c.scopes[scope]
	if !ok {
		return nil
	}
	var out []domain.CostCode
	for _, code := range def.CostCodes {
		if cc, ok := c.lookup(code); ok && cc.Category == category {
			out = append(out, cc)
		}
	}
	return out
}

// Submittals returns every standard submittal in file order.
func (c *Catalog) Submittals() []domain.SubmittalRequirement {
	out := make([]domain.SubmittalRequirement, len(c.submittals))
	for i, r := range c.submittals {
		out[i] = cloneSubmittal(r)
	}
	return out
}

// SubmittalsFor returns the standard submittals listed for scope, in file
// order.
func (c *Catalog) SubmittalsFor(scope domain.ScopeCategory) []domain.SubmittalRequirement {
	var out []domain.SubmittalRequirement
	for _, r := range c.submittals {
		if r.AppliesTo(scope) {
			out = append(out, cloneSubmittal(r))
		}
	}
	return out
}

func cloneSubmittal(r domain.SubmittalRequirement) domain.SubmittalRequirement {
	r.Scopes = append([]domain.ScopeCategory(nil), r.Scopes...)
	return r
}

func cloneVendor(v domain.Vendor) domain.Vendor {
	v.Materials = append([]domain.MaterialCategory(nil), v.Materials...)
	return v
}

func cloneScope(s domain.ScopeDefinition) domain.ScopeDefinition {
	s.Keywords = append([]string(nil), s.Keywords...)
	s.SpecSections = append([]string(nil), s.SpecSections...)
	s.RequiredMaterials = append([]domain.MaterialCategory(nil), s.RequiredMaterials...)
	s.CostCodes = append([]string(nil), s.CostCodes...)
	return s
}
