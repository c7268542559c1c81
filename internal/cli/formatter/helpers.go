package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + strings.TrimRight(content, "\n")
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// Money renders an amount such as "$1,234.56"; negative amounts are red.
func Money(c domain.Cents) string {
	if c < 0 {
		return StyleRed.Render(c.String())
	}
	return c.String()
}

// Percent renders basis points as "12.50%".
func Percent(bp domain.BasisPoints) string {
	return bp.String()
}

// HumanDate renders a calendar date as "Jan 2, 2006", or "--" when unset.
func HumanDate(d domain.Date) string {
	if d.IsZero() {
		return Dim("--")
	}
	return d.Format("Jan 2, 2006")
}

// HumanTime renders a timestamp in local time.
func HumanTime(t time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// OrDash returns s, or a dimmed "--" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Join renders a list as "a, b" or "--" when empty.
func Join(items []string) string {
	if len(items) == 0 {
		return Dim("--")
	}
	return strings.Join(items, ", ")
}

// Field renders a dimmed label followed by a value, padded to width.
func Field(label string, width int, value string) string {
	pad := max(width-lipgloss.Width(label), 0)
	return StyleDim.Render(strings.ToUpper(label)) + strings.Repeat(" ", pad+2) + value
}
