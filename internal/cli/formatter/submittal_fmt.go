package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/submittal"
)

// FormatSubmittals renders every log entry with its due date.
func FormatSubmittals(log submittal.Log) string {
	if len(log.Entries) == 0 {
		return Dim("No submittals.") + "\n"
	}
	rows := make([][]string, 0, len(log.Entries))
	for _, e := range log.Entries {
		desc := e.Description
		if !e.Required {
			desc += Dim(" (optional)")
		}
		if e.Source == submittal.SourceAnalysis {
			desc += Dim(" *")
		}
		rows = append(rows, []string{
			Dim(e.Item),
			e.ScopeLabel(),
			OrDash(e.SpecSection),
			desc,
			e.Category.Label(),
			HumanDate(e.Due),
		})
	}
	return Table{
		Headers: []string{"ITEM", "SCOPE", "SECTION", "DESCRIPTION", "CATEGORY", "DUE"},
		Rows:    rows,
	}.Render()
}

// FormatSubmittalSummary is the one-line count by category, e.g.
// "28 items: 8 Product Data, 4 Shop Drawings".
func FormatSubmittalSummary(log submittal.Log) string {
	if len(log.Entries) == 0 {
		return Dim("No submittals.") + "\n"
	}
	parts := make([]string, 0, len(log.ByCategory))
	for _, c := range log.ByCategory {
		parts = append(parts, fmt.Sprintf("%d %s", c.Count, c.Label))
	}
	return fmt.Sprintf("%s items: %s\n", Bold(fmt.Sprint(len(log.Entries))), strings.Join(parts, ", "))
}
