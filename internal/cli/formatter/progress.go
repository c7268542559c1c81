package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% for the share of total
// reached by done. A zero total renders an empty bar.
func RenderProgress(done, total domain.Cents, width int) string {
	width = max(width, 2)
	pct := 0.0
	if total > 0 {
		pct = min(max(float64(done)/float64(total), 0), 1)
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	if pct >= 1 {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
