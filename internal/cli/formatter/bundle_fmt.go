package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
)

// FormatBundle renders the terminal summary of a generation run: detected
// scopes, the schedule of values, monthly billing, submittal counts and
// warnings.
func FormatBundle(b *export.Bundle) string {
	var out strings.Builder

	title := fmt.Sprintf("%s  %s", b.ProjectNumber(), b.Contract.Name)
	if b.Version > 0 {
		title += fmt.Sprintf("  v%d", b.Version)
	}
	var head strings.Builder
	head.WriteString(Field("contract", 8, Bold(b.Contract.Value.String())) + "\n")
	head.WriteString(Field("start", 8, HumanDate(b.Contract.StartDate)) + "\n")
	if !b.Billing.RetentionDate.IsZero() {
		head.WriteString(Field("closeout", 8, HumanDate(b.Billing.RetentionDate)) + "\n")
	}
	if s := b.ScopeSummary(); s != nil && s.Summary != "" {
		head.WriteString("\n" + StyleFg.Render(s.Summary) + "\n")
	}
	out.WriteString(RenderBox(title, head.String()) + "\n\n")

	out.WriteString(Header("Scopes") + "\n")
	out.WriteString(FormatScopeMatches(b) + "\n")

	out.WriteString(Header("Schedule of values") + "\n")
	out.WriteString(FormatSOV(b) + "\n")

	out.WriteString(Header("Billing by month") + "\n")
	out.WriteString(FormatBilling(b) + "\n")

	out.WriteString(Header("Submittals") + "\n")
	out.WriteString(FormatSubmittalSummary(b.Submittals) + "\n")

	if len(b.Warnings) > 0 {
		out.WriteString(Header("Warnings") + "\n")
		out.WriteString(FormatWarnings(b.Warnings))
	}
	return out.String()
}

// FormatScopeMatches lists the scopes carried into the documents with their
// sections, vendors and values. A zero contract has no scheduled groups, so
// the matcher's scopes are listed at no value.
func FormatScopeMatches(b *export.Bundle) string {
	var rows [][]string
	for _, g := range b.SOV.Groups {
		name := Bold(g.Name)
		if g.Scope == domain.ScopeUnclassified && len(b.Scopes.Matches) == 0 {
			name += Dim(" (fallback)")
		}
		rows = append(rows, []string{name, OrDash(g.SpecSection), Join(g.Vendors), Money(g.Value)})
	}
	if len(rows) == 0 {
		for _, m := range b.Scopes.Matches {
			rows = append(rows, []string{Bold(m.Name), Join(m.SpecSections), Join(m.AllVendorNames()), Money(0)})
		}
	}
	if len(rows) == 0 {
		return Dim("No scopes detected.") + "\n"
	}
	return Table{
		Headers: []string{"SCOPE", "SECTION", "VENDORS", "VALUE"},
		Rows:    rows,
		Right:   []int{3},
	}.Render()
}

// FormatSOV renders the flat schedule of values with a total row.
func FormatSOV(b *export.Bundle) string {
	sovRows := b.SOV.Rows()
	if len(sovRows) == 0 {
		return Dim("Empty schedule of values.") + "\n"
	}
	rows := make([][]string, 0, len(sovRows))
	for _, r := range sovRows {
		rows = append(rows, []string{
			Dim(r.Item),
			r.Description,
			OrDash(r.SpecSection),
			Money(r.Value),
			Percent(r.Percent),
		})
	}
	return Table{
		Headers: []string{"ITEM", "DESCRIPTION", "SECTION", "VALUE", "%"},
		Rows:    rows,
		Right:   []int{3, 4},
		Footer:  []string{"", "Total", "", Money(b.SOV.Total()), ""},
	}.Render()
}

// FormatBilling renders the monthly billing roll-up.
func FormatBilling(b *export.Bundle) string {
	if len(b.Billing.Rows) == 0 {
		return Dim("No billing events.") + "\n"
	}
	rows := make([][]string, 0, len(b.Billing.Rows))
	for _, r := range b.Billing.Rows {
		rows = append(rows, []string{
			r.Month,
			Money(r.Amount),
			Money(r.Cumulative),
			RenderProgress(r.Cumulative, b.Billing.ContractValue, 12),
			Dim(strings.Join(r.Triggers, "; ")),
		})
	}
	return Table{
		Headers: []string{"MONTH", "AMOUNT", "CUMULATIVE", "BILLED", "TRIGGERS"},
		Rows:    rows,
		Right:   []int{1, 2},
	}.Render()
}

// FormatWarnings renders one line per warning.
func FormatWarnings(warnings []domain.Warning) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(WarningIndicator(w.Code) + "  " + w.Message + "\n")
	}
	return b.String()
}

// FormatExtraction renders what the model read from the contract documents.
func FormatExtraction(e *intelligence.Extraction) string {
	a := e.Analysis
	value := Dim("--")
	if a.FinancialDetails.ContractValue != nil {
		value = Money(*a.FinancialDetails.ContractValue)
	}

	var b strings.Builder
	b.WriteString(Field("project", 9, Bold(OrDash(a.ProjectInfo.ProjectName))) + "\n")
	b.WriteString(Field("client", 9, OrDash(domain.CoalesceStr(a.ProjectInfo.Client, a.ProjectInfo.GeneralContractor))) + "\n")
	b.WriteString(Field("location", 9, OrDash(a.ProjectInfo.Location)) + "\n")
	b.WriteString(Field("contract", 9, value) + "\n")
	b.WriteString(Field("start", 9, OrDash(a.Schedule.StartDate)) + "\n")
	b.WriteString(Field("sections", 9, Join(a.ScopeOfWork.SpecSections)) + "\n")
	if e.Model != "" {
		b.WriteString(Field("model", 9, Dim(fmt.Sprintf("%s (%d in / %d out tokens)", e.Model, e.InputTokens, e.OutputTokens))) + "\n")
	}
	if e.Truncated {
		b.WriteString(StyleYellow.Render("Contract text was truncated before analysis.") + "\n")
	}

	if len(a.ScopeOfWork.Items) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(a.ScopeOfWork.Items))
		for _, it := range a.ScopeOfWork.Items {
			v := Dim("--")
			if it.Value != nil {
				v = Money(*it.Value)
			}
			rows = append(rows, []string{it.Description, Join(it.SpecSections), v})
		}
		b.WriteString(Table{
			Headers: []string{"SCOPE ITEM", "SECTIONS", "VALUE"},
			Rows:    rows,
			Right:   []int{2},
		}.Render())
	}

	if len(e.Issues) > 0 {
		b.WriteString("\n" + StyleRed.Render("Needs review:") + "\n")
		for _, issue := range e.Issues {
			b.WriteString("  - " + issue + "\n")
		}
	}
	return RenderBox("Contract analysis", b.String())
}
