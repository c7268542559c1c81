package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func glazingHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFields are the raw text values of the project form and flags.
type projectFields struct {
	ShortID  string
	Name     string
	Client   string
	Location string
	Value    string
	Start    string
}

// projectForm collects a new project's fields. Value and start date are
// optional; they can come from the first generation instead.
func projectForm(f *projectFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("Harbor View Medical Office").
				Value(&f.Name).
				Validate(validateRequired),
			huh.NewInput().
				Title("Client / general contractor").
				Value(&f.Client),
			huh.NewInput().
				Title("Location").
				Placeholder("Portland, OR").
				Value(&f.Location),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Contract value").
				Description("Blank to set it when generating").
				Placeholder("$610,000.00").
				Value(&f.Value).
				Validate(validateOptionalMoney),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Placeholder("2025-03-03").
				Value(&f.Start).
				Validate(validateOptionalDate),
		),
	).WithTheme(glazingHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateOptionalMoney(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	c, err := domain.ParseCents(s)
	if err != nil {
		return err
	}
	if c < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := domain.ParseDate(s)
	return err
}

// project builds the domain project from the fields.
func (f projectFields) project() (*domain.Project, error) {
	if err := validateOptionalMoney(f.Value); err != nil {
		return nil, fmt.Errorf("invalid contract value: %w", err)
	}
	if err := validateOptionalDate(f.Start); err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	p := &domain.Project{
		ShortID:  strings.ToUpper(strings.TrimSpace(f.ShortID)),
		Name:     strings.TrimSpace(f.Name),
		Client:   strings.TrimSpace(f.Client),
		Location: strings.TrimSpace(f.Location),
	}
	if strings.TrimSpace(f.Value) != "" {
		p.ContractValue, _ = domain.ParseCents(f.Value)
	}
	if strings.TrimSpace(f.Start) != "" {
		d, _ := domain.ParseDate(f.Start)
		p.StartDate = d.Time
	}
	return p, nil
}
