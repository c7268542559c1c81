package intelligence

import (
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/sov"
)

// ProjectTrace is the generated-document data a scope summary may draw on.
type ProjectTrace struct {
	Project       string           `json:"project"`
	ContractValue domain.Cents     `json:"contract_value"`
	StartDate     domain.Date      `json:"start_date"`
	RetentionDate domain.Date      `json:"retention_date"`
	Scopes        []ScopeTrace     `json:"scopes"`
	Warnings      []domain.Warning `json:"warnings,omitempty"`
}

// ScopeTrace is one scope's value, sourcing and key dates.
type ScopeTrace struct {
	Category             domain.ScopeCategory `json:"category"`
	Name                 string               `json:"name"`
	SpecSection          string               `json:"spec_section,omitempty"`
	Value                domain.Cents         `json:"value"`
	Vendors              []string             `json:"vendors,omitempty"`
	LeadTimeWeeks        int                  `json:"lead_time_weeks"`
	InstallWeeks         int                  `json:"install_weeks"`
	MaterialsPurchased   domain.Date          `json:"materials_purchased"`
	InstallationComplete domain.Date          `json:"installation_complete"`
}

// BuildProjectTrace joins the SOV groups with their billing timelines.
func BuildProjectTrace(doc sov.Document, sched scheduler.Schedule) ProjectTrace {
	trace := ProjectTrace{
		Project:       doc.Project,
		ContractValue: doc.ContractValue,
		StartDate:     sched.StartDate,
		RetentionDate: sched.RetentionDate,
		Warnings:      doc.Warnings,
	}
	timelines := make(map[domain.ScopeCategory]scheduler.ScopeTimeline, len(sched.Timelines))
	for _, tl := range sched.Timelines {
		timelines[tl.Scope] = tl
	}
	for _, g := range doc.Groups {
		st := ScopeTrace{
			Category:    g.Scope,
			Name:        g.Name,
			SpecSection: g.SpecSection,
			Value:       g.Value,
			Vendors:     g.Vendors,
		}
		if tl, ok := timelines[g.Scope]; ok {
			st.LeadTimeWeeks = tl.LeadTimeWeeks
			st.InstallWeeks = tl.InstallWeeks
			st.MaterialsPurchased = tl.MaterialsPurchased
			st.InstallationComplete = tl.InstallationComplete
		}
		trace.Scopes = append(trace.Scopes, st)
	}
	return trace
}

// ScopeKeys returns the categories a summary highlight may reference.
func (t ProjectTrace) ScopeKeys() map[string]bool {
	keys := make(map[string]bool, len(t.Scopes))
	for _, s := range t.Scopes {
		keys[string(s.Category)] = true
	}
	return keys
}

// LongestLead returns the scope with the longest lead time. ok is false when
// the trace has no scopes.
func (t ProjectTrace) LongestLead() (ScopeTrace, bool) {
	if len(t.Scopes) == 0 {
		return ScopeTrace{}, false
	}
	best := t.Scopes[0]
	for _, s := range t.Scopes[1:] {
		if s.LeadTimeWeeks > best.LeadTimeWeeks {
			best = s
		}
	}
	return best, true
}
