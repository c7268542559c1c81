package intelligence

import (
	"fmt"
	"strings"
)

// DeterministicSummary builds the scope summary directly from trace data.
func DeterministicSummary(trace ProjectTrace) *ScopeSummary {
	out := &ScopeSummary{
		Confidence: 1.0,
		Source:     SummarySourceDeterministic,
		Highlights: []ScopeHighlight{},
	}

	if len(trace.Scopes) == 0 {
		out.Summary = fmt.Sprintf("%s has a contract value of %s and no scheduled scopes.", trace.Project, trace.ContractValue)
		return out
	}

	names := make([]string, len(trace.Scopes))
	for i, s := range trace.Scopes {
		names[i] = s.Name
	}
	sentences := []string{
		fmt.Sprintf("%s covers %d glazing scope(s) totalling %s: %s.",
			trace.Project, len(trace.Scopes), trace.ContractValue, strings.Join(names, ", ")),
		fmt.Sprintf("Work starts %s and final retention bills %s.", trace.StartDate, trace.RetentionDate),
	}
	if lead, ok := trace.LongestLead(); ok && lead.LeadTimeWeeks > 0 {
		sentences = append(sentences, fmt.Sprintf("%s has the longest lead time at %d weeks, with materials purchased %s.",
			lead.Name, lead.LeadTimeWeeks, lead.MaterialsPurchased))
	}
	if n := len(trace.Warnings); n > 0 {
		sentences = append(sentences, fmt.Sprintf("%d warning(s) need manual follow-up.", n))
	}
	out.Summary = strings.Join(sentences, " ")

	for _, s := range trace.Scopes {
		text := fmt.Sprintf("%s: %s, installation complete %s.", s.Name, s.Value, s.InstallationComplete)
		if len(s.Vendors) > 0 {
			text = fmt.Sprintf("%s: %s from %s, installation complete %s.",
				s.Name, s.Value, strings.Join(s.Vendors, ", "), s.InstallationComplete)
		}
		out.Highlights = append(out.Highlights, ScopeHighlight{Scope: string(s.Category), Text: text})
	}
	return out
}
