package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/submittal"
	"github.com/spf13/cobra"
)

// errNoAnalyzer is returned by submittals when spec files are given but no
// LLM client is configured.
var errNoAnalyzer = errors.New("reading specifications needs an LLM: set GLAZINGPM_LLM_ENABLED=true and ANTHROPIC_API_KEY")

func newSubmittalsCmd(app *App) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "submittals PROJECT [SPEC_FILE...]",
		Short: "Show a project's submittal log",
		Long: "Print the submittal log of a project's latest output set. Given specification\n" +
			"files, the language model reads them for further submittal requirements and the\n" +
			"log is rebuilt with those added. The stored output set is not changed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && app.Submittals == nil {
				return errNoAnalyzer
			}
			ctx := commandContext(cmd)
			res, err := app.Generation.Latest(ctx, args[0])
			if err != nil {
				return err
			}
			b := res.Bundle

			if len(args) > 1 {
				docs, err := readDocuments(args[1:])
				if err != nil {
					return err
				}
				stop := func() {}
				if app.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Reading specifications...")
				}
				analysis, err := app.Submittals.Analyze(ctx, docs)
				stop()
				if err != nil {
					return err
				}
				b.Submittals = submittal.Build(app.Catalog, b.Scopes.Matches, b.Billing, analysis.Requirements)
				if analysis.Truncated {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("Specifications were truncated; the log may be incomplete."))
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Submittal log "+b.ProjectNumber()))
			fmt.Fprint(out, formatter.FormatSubmittals(b.Submittals))
			fmt.Fprint(out, formatter.FormatSubmittalSummary(b.Submittals))

			if outDir == "" {
				return nil
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			path := filepath.Join(outDir, export.KindSubmittals.FileName(b))
			if err := writeExport(path, export.KindSubmittals, b); err != nil {
				return err
			}
			printWritten(cmd.ErrOrStderr(), []string{path})
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write the submittal log CSV to this directory")
	return cmd
}
