package cli

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/config"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/metrics"
	"github.com/alexanderramin/glazingpm/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Generation service.GenerationService
	Import     service.ImportService
	// Extractor and Submittals are nil when no LLM is configured.
	Extractor  intelligence.ContractExtractor
	Submittals intelligence.SubmittalAnalyzer
	Catalog    *catalog.Catalog
	Server     config.ServerConfig
	Metrics    *metrics.Registry
	Logger     *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// RunProgram runs a full-screen model. Nil uses tea.NewProgram.
	RunProgram func(tea.Model) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRootCmd creates the top-level "glazingpm" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "glazingpm",
		Short:         "Glazing contract budgets, billing schedules and schedules of values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Read by main before the App is wired; declared here so cobra accepts it.
	root.PersistentFlags().String("config", "", "Config file (default ./glazingpm.yaml or $GLAZINGPM_CONFIG)")

	root.AddCommand(
		newProjectCmd(app),
		newGenerateCmd(app),
		newExtractCmd(app),
		newImportCmd(app),
		newSubmittalsCmd(app),
		newVendorsCmd(app),
		newCostCodesCmd(app),
		newScopesCmd(app),
		newReviewCmd(app),
		newServeCmd(app),
	)

	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
