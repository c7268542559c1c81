package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newReviewCmd(app *App) *cobra.Command {
	var (
		version int
		kind    string
	)

	cmd := &cobra.Command{
		Use:   "review PROJECT",
		Short: "Page through a project's generated documents",
		Long: "Open the latest (or --version) documents of a project in a scrollable viewer.\n" +
			"Tab switches between the report, CSV sheets, JSON and draft emails. When output\n" +
			"is not a terminal, the --kind document is printed instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			var (
				res *service.GenerationResult
				err error
			)
			if version > 0 {
				res, err = app.Generation.Version(ctx, args[0], version)
			} else {
				res, err = app.Generation.Latest(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("loading documents for %s: %w", args[0], err)
			}

			m, err := newReviewModel(res.Bundle, export.Kind(kind))
			if err != nil {
				return err
			}
			if !app.interactive() {
				fmt.Fprint(cmd.OutOrStdout(), m.pages[m.kinds[m.active]])
				return nil
			}
			return app.runProgram(m)
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Output set version (default latest)")
	cmd.Flags().StringVar(&kind, "kind", string(export.KindReport), "Document to open first: "+kindList())
	return cmd
}

func kindList() string {
	names := make([]string, len(export.Kinds()))
	for i, k := range export.Kinds() {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

const (
	reviewHeaderLines = 2
	reviewFooterLines = 1
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Bold(true).Padding(0, 1)
)

// reviewModel is a tabbed, scrollable viewer over a bundle's rendered
// documents.
type reviewModel struct {
	title    string
	kinds    []export.Kind
	pages    map[export.Kind]string
	active   int
	viewport viewport.Model
	ready    bool
	width    int
}

// newReviewModel renders every document kind up front and opens first.
func newReviewModel(b *export.Bundle, first export.Kind) (*reviewModel, error) {
	m := &reviewModel{
		title: fmt.Sprintf("%s  %s  v%d", b.ProjectNumber(), b.Contract.Name, b.Version),
		kinds: export.Kinds(),
		pages: make(map[export.Kind]string, len(export.Kinds())),
	}
	found := false
	for i, k := range m.kinds {
		var buf bytes.Buffer
		if err := export.Write(&buf, k, b); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", k, err)
		}
		m.pages[k] = buf.String()
		if k == first {
			m.active, found = i, true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w %q (want one of %s)", export.ErrUnknownKind, first, kindList())
	}
	return m, nil
}

func (m *reviewModel) Init() tea.Cmd { return nil }

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-reviewHeaderLines-reviewFooterLines, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.pages[m.kinds[m.active]])
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.show((m.active + 1) % len(m.kinds))
			return m, nil
		case "shift+tab", "left", "h":
			m.show((m.active + len(m.kinds) - 1) % len(m.kinds))
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) show(i int) {
	m.active = i
	if m.ready {
		m.viewport.SetContent(m.pages[m.kinds[i]])
		m.viewport.GotoTop()
	}
}

// Active is the document kind on screen.
func (m *reviewModel) Active() export.Kind { return m.kinds[m.active] }

func (m *reviewModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	tabs := make([]string, len(m.kinds))
	for i, k := range m.kinds {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs[i] = style.Render(string(k))
	}
	header := formatter.StyleHeader.Render(m.title) + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	footer := formatter.Dim(fmt.Sprintf("%3.0f%%  tab/shift+tab switch  ↑/↓ scroll  q quit", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}
