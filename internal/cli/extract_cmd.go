package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/intelligence"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/spf13/cobra"
)

// errNoExtractor is returned by extract when no LLM client is configured.
var errNoExtractor = errors.New("contract extraction needs an LLM: set GLAZINGPM_LLM_ENABLED=true and ANTHROPIC_API_KEY")

func newExtractCmd(app *App) *cobra.Command {
	var (
		saveTo   string
		register bool
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Read contract documents into a contract analysis",
		Long: "Send the text of one or more contract documents (plain text or markdown) to the\n" +
			"language model and print the contract analysis it returns. With --register the\n" +
			"analysis is imported as a new project and its documents are generated.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Extractor == nil {
				return errNoExtractor
			}
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Reading contract...")
			}
			ext, err := app.Extractor.Extract(ctx, docs)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatExtraction(ext))

			if saveTo != "" {
				data, err := json.MarshalIndent(ext.Analysis, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(saveTo, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("saving analysis: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved analysis to %s\n", saveTo)
			}

			if !register {
				return nil
			}
			if !ext.Ready() {
				return fmt.Errorf("analysis needs review before it can be registered (%d issues); save it with --save, edit it and run `glazingpm import`", len(ext.Issues))
			}
			res, err := app.Import.ImportAnalysis(ctx, &ext.Analysis, service.SourceExtract)
			if err != nil {
				return err
			}
			return printImport(cmd, res, outDir)
		},
	}

	cmd.Flags().StringVar(&saveTo, "save", "", "Write the analysis JSON to this file")
	cmd.Flags().BoolVar(&register, "register", false, "Register the project and generate its documents")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "With --register, write every export to this directory")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Register a project from a contract analysis JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printImport(cmd, res, outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write every export to this directory")
	return cmd
}

func printImport(cmd *cobra.Command, res *service.ImportResult, outDir string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Registered project %s %s\n\n", formatter.StylePurple.Render(res.Project.ShortID), res.Project.Name)
	b := res.Generation.Bundle
	fmt.Fprint(out, formatter.FormatBundle(b))
	if outDir == "" {
		return nil
	}
	paths, err := writeExports(outDir, b)
	if err != nil {
		return err
	}
	printWritten(cmd.ErrOrStderr(), paths)
	return nil
}

// readDocuments loads each non-blank file's text under its base name.
func readDocuments(paths []string) ([]intelligence.Document, error) {
	docs := make([]intelligence.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		docs = append(docs, intelligence.Document{Name: filepath.Base(p), Text: string(data)})
	}
	return docs, nil
}
