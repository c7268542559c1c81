package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/budget"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/alexanderramin/glazingpm/internal/submittal"
)

// Money columns use Cents.Plain so spreadsheets read them as numbers.

// WriteSOVCSV writes the flat SOV rows followed by a billing category summary.
func WriteSOVCSV(w io.Writer, doc sov.Document) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Item #", "Description", "Spec Section", "Category", "Scheduled Value", "Percent", "Billing Trigger"}}
	totals := make(map[domain.BillingCategory]domain.Cents)
	for _, r := range doc.Rows() {
		rows = append(rows, []string{
			r.Item,
			r.Description,
			r.SpecSection,
			r.Category.Label(),
			r.Value.Plain(),
			r.Percent.String(),
			r.Trigger,
		})
		totals[r.Category] += r.Value
	}

	rows = append(rows, nil, []string{"SUMMARY"})
	for _, b := range domain.AllBillingCategories() {
		rows = append(rows, []string{b.Label(), "", "", "", totals[b].Plain()})
	}
	rows = append(rows, []string{"Total", "", "", "", doc.Total().Plain()})
	return writeAll(cw, rows)
}

// WriteBudgetCSV writes the cost-coded budget for accounting import.
func WriteBudgetCSV(w io.Writer, doc budget.Document) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Scope", "Cost Code", "Description", "Quantity", "Unit", "Unit Cost", "Total Cost", "Notes"}}
	for _, l := range doc.Lines {
		scopeLabel := ""
		if l.Scope != "" {
			scopeLabel = l.Scope.Label()
		}
		qty := ""
		if l.Quantity > 0 {
			qty = strconv.FormatFloat(l.Quantity, 'f', -1, 64)
		}
		unitCost := ""
		if l.UnitRate > 0 {
			unitCost = l.UnitRate.Plain()
		}
		rows = append(rows, []string{
			scopeLabel,
			l.Code,
			l.Description,
			qty,
			string(l.Unit),
			unitCost,
			l.Amount.Plain(),
			budgetNotes(l),
		})
	}

	rows = append(rows, nil)
	for _, t := range doc.Totals.ByBillingCategory {
		rows = append(rows, []string{"", "", "", "", "", strings.ToUpper(t.Label) + " TOTAL:", t.Amount.Plain(), ""})
	}
	rows = append(rows, []string{"", "", "", "", "", "GRAND TOTAL:", doc.Totals.Grand.Plain(), ""})
	return writeAll(cw, rows)
}

func budgetNotes(l budget.Line) string {
	var notes []string
	if l.Unclassified {
		notes = append(notes, "needs cost code")
	}
	if len(l.Vendors) > 0 {
		notes = append(notes, "vendors: "+strings.Join(l.Vendors, ", "))
	}
	return strings.Join(notes, "; ")
}

// WriteBillingCSV writes every billing event with a running total, then the
// monthly summary.
func WriteBillingCSV(w io.Writer, sched scheduler.Schedule) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Month", "Date", "Scope", "Milestone", "Amount", "Cumulative", "Notes"}}
	var cumulative domain.Cents
	for _, e := range sched.Events {
		cumulative += e.Amount
		rows = append(rows, []string{
			e.Date.MonthLabel(),
			e.Date.String(),
			eventScope(e),
			e.Stage.Label(),
			e.Amount.Plain(),
			cumulative.Plain(),
			e.Description,
		})
	}

	rows = append(rows, nil, []string{"MONTHLY SUMMARY"}, []string{"Month", "Total Billing", "Cumulative", "Triggers"})
	for _, r := range sched.Rows {
		rows = append(rows, []string{r.Month, r.Amount.Plain(), r.Cumulative.Plain(), strings.Join(r.Triggers, "; ")})
	}
	return writeAll(cw, rows)
}

func eventScope(e scheduler.Event) string {
	if e.Scope == "" {
		return "Project"
	}
	return e.Scope.Label()
}

// WriteSubmittalsCSV writes the submittal log with blank Submitted and
// Approved columns for the coordinator to fill in, then the category counts.
func WriteSubmittalsCSV(w io.Writer, log submittal.Log) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Item No.", "Scope", "Spec Section", "Description", "Category", "Required", "Status", "Due Date", "Submitted", "Approved", "Notes"}}
	for _, e := range log.Entries {
		required := "No"
		if e.Required {
			required = "Yes"
		}
		rows = append(rows, []string{
			e.Item,
			e.ScopeLabel(),
			e.SpecSection,
			e.Description,
			e.Category.Label(),
			required,
			statusLabel(e.Status),
			e.Due.String(),
			"",
			"",
			e.Notes,
		})
	}

	rows = append(rows, nil, []string{"SUMMARY BY CATEGORY"})
	for _, c := range log.ByCategory {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(len(log.Entries))})
	return writeAll(cw, rows)
}

// statusLabel turns "not_started" into "Not Started".
func statusLabel(s submittal.Status) string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func writeAll(cw *csv.Writer, rows [][]string) error {
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
