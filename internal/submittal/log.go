// Package submittal builds the submittal log: the product data, drawings,
// samples and certifications owed for each matched scope, due when that
// scope's submittal phase closes.
package submittal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
)

// Source records where an entry came from.
type Source string

const (
	SourceStandard Source = "standard"
	SourceAnalysis Source = "analysis"
)

// Status is an entry's review state. New logs start every entry at
// StatusNotStarted.
type Status string

const StatusNotStarted Status = "not_started"

// dedupeChars is how much of a description identifies an entry.
const dedupeChars = 50

// Entry is one line of the submittal log. Scope is empty for project-wide
// items that no matched scope claims.
type Entry struct {
	Item        string                   `json:"item"`
	Scope       domain.ScopeCategory     `json:"scope,omitempty"`
	SpecSection string                   `json:"spec_section,omitempty"`
	Description string                   `json:"description"`
	Category    domain.SubmittalCategory `json:"category"`
	Required    bool                     `json:"required"`
	Status      Status                   `json:"status"`
	Due         domain.Date              `json:"due"`
	Notes       string                   `json:"notes,omitempty"`
	Source      Source                   `json:"source"`
}

// ScopeLabel names the entry's scope, or "Project" for project-wide items.
func (e Entry) ScopeLabel() string {
	if e.Scope == "" {
		return "Project"
	}
	return e.Scope.Label()
}

// CategoryCount is one row of the per-category summary.
type CategoryCount struct {
	Category domain.SubmittalCategory `json:"category"`
	Label    string                   `json:"label"`
	Count    int                      `json:"count"`
}

// Log is a project's submittal log.
type Log struct {
	Project    string          `json:"project"`
	Entries    []Entry         `json:"entries"`
	ByCategory []CategoryCount `json:"by_category"`
}

// Required counts the entries that gate release for fabrication.
func (l Log) Required() int {
	n := 0
	for _, e := range l.Entries {
		if e.Required {
			n++
		}
	}
	return n
}

// Build assembles the log from the catalog's standard submittals for each
// match plus any extra requirements, typically read from the project
// specifications. Each scope's entries are due on its SubmittalsComplete
// date; project-wide entries, and scopes the schedule has no timeline for,
// on the earliest one. Entries repeating a scope, section and description
// are kept once, first source wins.
func Build(cat *catalog.Catalog, matches []scope.Match, sched scheduler.Schedule, extra []domain.SubmittalRequirement) Log {
	due := make(map[domain.ScopeCategory]domain.Date, len(sched.Timelines))
	projectDue := sched.StartDate
	for i, tl := range sched.Timelines {
		due[tl.Scope] = tl.SubmittalsComplete
		if i == 0 || tl.SubmittalsComplete.Before(projectDue) {
			projectDue = tl.SubmittalsComplete
		}
	}

	dueOf := func(s domain.ScopeCategory) domain.Date {
		if d, ok := due[s]; ok {
			return d
		}
		return projectDue
	}

	b := &builder{seen: make(map[string]bool)}
	for _, m := range matches {
		def, _ := cat.Scope(m.Category)
		own := m.PrimarySpecSection(def)
		for _, r := range cat.SubmittalsFor(m.Category) {
			b.add(m.Category, sectionOr(r.SpecSection, own), r, dueOf(m.Category), SourceStandard)
		}
	}

	for _, r := range extra {
		if strings.TrimSpace(r.Description) == "" {
			continue
		}
		if !r.Category.Valid() {
			r.Category = domain.SubmittalOther
		}
		targets := claimingScopes(cat, matches, r)
		if len(targets) == 0 {
			b.add("", sectionOr(r.SpecSection, ""), r, projectDue, SourceAnalysis)
			continue
		}
		for _, m := range targets {
			def, _ := cat.Scope(m.Category)
			b.add(m.Category, sectionOr(r.SpecSection, m.PrimarySpecSection(def)), r, dueOf(m.Category), SourceAnalysis)
		}
	}

	return b.finish(sched.Project, matches)
}

type builder struct {
	entries []Entry
	seen    map[string]bool
}

func (b *builder) add(s domain.ScopeCategory, section string, r domain.SubmittalRequirement, due domain.Date, src Source) {
	desc := strings.TrimSpace(r.Description)
	key := dedupeKey(s, section, desc)
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.entries = append(b.entries, Entry{
		Scope:       s,
		SpecSection: section,
		Description: desc,
		Category:    r.Category,
		Required:    !r.Optional,
		Status:      StatusNotStarted,
		Due:         due,
		Notes:       strings.TrimSpace(r.Notes),
		Source:      src,
	})
}

// finish orders the entries by due date, then project-wide items before
// scopes in match order, keeping insertion order otherwise, and numbers
// them GL-001 onward.
func (b *builder) finish(project string, matches []scope.Match) Log {
	rank := map[domain.ScopeCategory]int{"": -1}
	for i, m := range matches {
		rank[m.Category] = i
	}
	entries := b.entries
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Due.Equal(entries[j].Due.Time) {
			return entries[i].Due.Before(entries[j].Due)
		}
		return rank[entries[i].Scope] < rank[entries[j].Scope]
	})

	counts := make(map[domain.SubmittalCategory]int)
	for i := range entries {
		entries[i].Item = fmt.Sprintf("GL-%03d", i+1)
		counts[entries[i].Category]++
	}
	out := Log{Project: project, Entries: entries, ByCategory: []CategoryCount{}}
	if out.Entries == nil {
		out.Entries = []Entry{}
	}
	for _, c := range domain.AllSubmittalCategories() {
		if counts[c] > 0 {
			out.ByCategory = append(out.ByCategory, CategoryCount{Category: c, Label: c.Label(), Count: counts[c]})
		}
	}
	return out
}

// claimingScopes returns the matches an extra requirement belongs to: the
// scopes it names, otherwise the scopes whose sections include its section.
func claimingScopes(cat *catalog.Catalog, matches []scope.Match, r domain.SubmittalRequirement) []scope.Match {
	var out []scope.Match
	if len(r.Scopes) > 0 {
		for _, m := range matches {
			if r.AppliesTo(m.Category) {
				out = append(out, m)
			}
		}
		return out
	}

	section := catalog.NormalizeSpecSection(r.SpecSection)
	if section == "" {
		return nil
	}
	for _, m := range matches {
		def, _ := cat.Scope(m.Category)
		if hasSection(def.SpecSections, section) || hasSection(m.SpecSections, section) {
			out = append(out, m)
		}
	}
	return out
}

func hasSection(sections []string, normalized string) bool {
	for _, s := range sections {
		if catalog.NormalizeSpecSection(s) == normalized {
			return true
		}
	}
	return false
}

// sectionOr prints a CSI code in six-digit form, falling back to def when
// s is empty. Codes that don't normalize to six digits are kept as written.
func sectionOr(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = def
	}
	if n := catalog.NormalizeSpecSection(s); len(n) == 6 {
		return n
	}
	return s
}

func dedupeKey(s domain.ScopeCategory, section, desc string) string {
	d := catalog.NormalizePhrase(desc)
	if len(d) > dedupeChars {
		d = d[:dedupeChars]
	}
	return string(s) + "|" + catalog.NormalizeSpecSection(section) + "|" + d
}
