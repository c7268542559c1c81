package formatter

import (
	"strings"

	"github.com/alexanderramin/glazingpm/internal/sov"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// FormatSOVTree renders the schedule of values as scope, billing category
// and line item levels with right-aligned amounts.
func FormatSOVTree(doc sov.Document) string {
	type line struct {
		content string
		amount  string
	}
	var lines []line
	for _, node := range doc.Tree() {
		lines = append(lines, line{Bold(node.Name), Bold(node.Value.String())})
		for ci, cn := range node.Categories {
			lastCat := ci == len(node.Categories)-1
			lines = append(lines, line{connector(lastCat) + StyleFg.Render(cn.Label), cn.Value.String()})
			stem := treePipe
			if lastCat {
				stem = treeSpace
			}
			for li, l := range cn.Lines {
				title := l.Description
				if l.Material != "" {
					title = l.Material.Label()
				}
				lines = append(lines, line{stem + connector(li == len(cn.Lines)-1) + Dim(title), Dim(l.Value.String())})
			}
		}
	}
	if len(lines) == 0 {
		return ""
	}

	total := doc.Total().String()
	contentWidth, amountWidth := 0, lipgloss.Width(total)
	for _, l := range lines {
		contentWidth = max(contentWidth, lipgloss.Width(l.content))
		amountWidth = max(amountWidth, lipgloss.Width(l.amount))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.content)
		b.WriteString(strings.Repeat(" ", contentWidth-lipgloss.Width(l.content)+colGap))
		b.WriteString(strings.Repeat(" ", amountWidth-lipgloss.Width(l.amount)))
		b.WriteString(l.amount + "\n")
	}
	b.WriteString(strings.Repeat(" ", contentWidth+colGap+amountWidth-lipgloss.Width(total)))
	b.WriteString(StyleHeader.Render(total) + "\n")
	return b.String()
}

func connector(last bool) string {
	if last {
		return treeCorner
	}
	return treeBranch
}
