package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// FormatProjectList renders the project registry inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Create one with `glazingpm project add`."))
	}

	rows := make([][]string, 0, len(projects))
	var total domain.Cents
	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			OrDash(p.Client),
			Money(p.ContractValue),
			HumanDate(domain.NewDate(p.StartDate)),
		})
		total += p.ContractValue
	}

	table := Table{
		Headers: []string{"ID", "NAME", "CLIENT", "CONTRACT", "START"},
		Rows:    rows,
		Right:   []int{3},
		Footer:  []string{"", fmt.Sprintf("%d projects", len(projects)), "", Money(total), ""},
	}
	return RenderBox("Projects", table.Render())
}

// FormatProjectDetail renders one project and its output set history.
func FormatProjectDetail(p *domain.Project, history []*domain.OutputSet) string {
	const labelWidth = 8
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(Field("number", labelWidth, StylePurple.Render(p.DisplayID())) + "\n")
	b.WriteString(Field("client", labelWidth, OrDash(p.Client)) + "\n")
	b.WriteString(Field("location", labelWidth, OrDash(p.Location)) + "\n")
	b.WriteString(Field("contract", labelWidth, Money(p.ContractValue)) + "\n")
	b.WriteString(Field("start", labelWidth, HumanDate(domain.NewDate(p.StartDate))) + "\n")
	b.WriteString(Field("created", labelWidth, HumanTime(p.CreatedAt)) + "\n")

	b.WriteString("\n" + Header("Output sets") + "\n")
	if len(history) == 0 {
		b.WriteString(Dim("Not generated yet. Run `glazingpm generate " + p.DisplayID() + "`.") + "\n")
		return RenderBox("", b.String())
	}

	rows := make([][]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		o := history[i]
		rows = append(rows, []string{
			fmt.Sprintf("v%d", o.Version),
			HumanTime(o.CreatedAt),
			OrDash(o.Source),
			Money(o.ContractValue),
		})
	}
	b.WriteString(Table{
		Headers: []string{"VERSION", "GENERATED", "SOURCE", "CONTRACT"},
		Rows:    rows,
		Right:   []int{3},
	}.Render())
	return RenderBox("", b.String())
}
