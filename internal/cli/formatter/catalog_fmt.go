package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

// FormatVendors renders the vendor directory.
func FormatVendors(vendors []domain.Vendor) string {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		materials := make([]string, len(v.Materials))
		for i, m := range v.Materials {
			materials[i] = m.Label()
		}
		rows = append(rows, []string{
			Bold(v.Name),
			Join(materials),
			fmt.Sprintf("%dw", v.LeadTimeWeeks),
			Rating(v.Rating),
			OrDash(v.Contact),
			OrDash(v.Email),
		})
	}
	return RenderBox("Vendors", Table{
		Headers: []string{"VENDOR", "MATERIALS", "LEAD", "RATING", "CONTACT", "EMAIL"},
		Rows:    rows,
		Right:   []int{2},
	}.Render())
}

// Rating renders a 1-5 rating as stars.
func Rating(r int) string {
	r = min(max(r, 0), 5)
	return StyleYellow.Render(strings.Repeat("★", r)) + Dim(strings.Repeat("☆", 5-r))
}

// FormatCostCodes renders the cost code table.
func FormatCostCodes(codes []domain.CostCode) string {
	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		rate := Dim("--")
		if c.UnitRate > 0 {
			rate = c.UnitRate.String() + "/" + string(c.Unit)
		}
		rows = append(rows, []string{
			StylePurple.Render(c.Code),
			c.Description,
			c.Category.Label(),
			rate,
		})
	}
	return RenderBox("Cost codes", Table{
		Headers: []string{"CODE", "DESCRIPTION", "CATEGORY", "RATE"},
		Rows:    rows,
		Right:   []int{3},
	}.Render())
}

// FormatScopes renders the scope definitions.
func FormatScopes(scopes []domain.ScopeDefinition) string {
	rows := make([][]string, 0, len(scopes))
	for _, s := range scopes {
		rows = append(rows, []string{
			Bold(s.Category.Label()),
			Join(s.SpecSections),
			weekRange(s.LeadTime),
			weekRange(s.InstallWeeks),
			strconv.Itoa(len(s.RequiredMaterials)),
			Money(s.TypicalValue),
		})
	}
	return RenderBox("Scopes", Table{
		Headers: []string{"SCOPE", "SECTIONS", "LEAD", "INSTALL", "MATERIALS", "TYPICAL"},
		Rows:    rows,
		Right:   []int{4, 5},
	}.Render())
}

func weekRange(r domain.WeekRange) string {
	if r.Min == r.Max {
		return fmt.Sprintf("%dw", r.Min)
	}
	return fmt.Sprintf("%d-%dw", r.Min, r.Max)
}
