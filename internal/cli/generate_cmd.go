package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/spf13/cobra"
)

// inputFlags override fields of a contract input file.
type inputFlags struct {
	File   string
	Name   string
	Client string
	Value  string
	Start  string
	Scopes []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.File, "input", "i", "", "Contract input JSON file")
	cmd.Flags().StringVar(&f.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.Client, "client", "", "Client or general contractor")
	cmd.Flags().StringVar(&f.Value, "value", "", "Contract value (e.g. 610000 or $610,000.00)")
	cmd.Flags().StringVar(&f.Start, "start", "", "Contract start date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&f.Scopes, "scope", nil, "Scope description, repeatable (e.g. --scope \"aluminum storefront\")")
}

// build reads the input file, if any, and applies the flags over it.
func (f *inputFlags) build() (contract.ProjectInput, error) {
	var in contract.ProjectInput
	if f.File != "" {
		data, err := os.ReadFile(f.File)
		if err != nil {
			return in, fmt.Errorf("reading input: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parsing input %s: %w", f.File, err)
		}
	}
	if f.Name != "" {
		in.Name = f.Name
	}
	if f.Client != "" {
		in.Client = f.Client
	}
	if f.Value != "" {
		c, err := domain.ParseCents(f.Value)
		if err != nil {
			return in, fmt.Errorf("invalid --value: %w", err)
		}
		in.ContractValue = &c
	}
	if f.Start != "" {
		d, err := domain.ParseDate(f.Start)
		if err != nil {
			return in, fmt.Errorf("invalid --start: %w", err)
		}
		in.StartDate = &d
	}
	for _, s := range f.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			in.Signals = append(in.Signals, contract.ScopeSignal{Description: s})
		}
	}
	return in, nil
}

func newGenerateCmd(app *App) *cobra.Command {
	var (
		flags   inputFlags
		outDir  string
		asJSON  bool
		asTree  bool
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "generate [PROJECT]",
		Short: "Generate the budget, billing schedule and schedule of values",
		Long: "Generate every document for a registered project and store them as its next version.\n" +
			"Fields missing from the input are taken from the project. Without a project, or\n" +
			"with --preview, the documents are generated without being stored.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			in, err := flags.build()
			if err != nil {
				return err
			}

			var b *export.Bundle
			if len(args) == 0 || preview {
				if b, err = app.Generation.Preview(ctx, in); err != nil {
					return err
				}
			} else {
				res, err := app.Generation.Generate(ctx, args[0], in, service.SourceCLI)
				if err != nil {
					return err
				}
				b = res.Bundle
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				if err := export.WriteJSON(out, b); err != nil {
					return err
				}
			case asTree:
				fmt.Fprint(out, formatter.FormatSOVTree(b.SOV))
			default:
				fmt.Fprint(out, formatter.FormatBundle(b))
			}

			if outDir != "" {
				paths, err := writeExports(outDir, b)
				if err != nil {
					return err
				}
				printWritten(cmd.ErrOrStderr(), paths)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write every export (CSV, JSON, report, drafts) to this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the documents as JSON")
	cmd.Flags().BoolVar(&asTree, "tree", false, "Print the schedule of values as a tree")
	cmd.Flags().BoolVar(&preview, "preview", false, "Generate without storing a new version")

	return cmd
}

// writeExports renders every export kind into dir and returns the paths.
func writeExports(dir string, b *export.Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	paths := make([]string, 0, len(export.Kinds()))
	for _, kind := range export.Kinds() {
		path := filepath.Join(dir, kind.FileName(b))
		if err := writeExport(path, kind, b); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeExport(path string, kind export.Kind, b *export.Bundle) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := export.Write(f, kind, b); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	return nil
}

func printWritten(w io.Writer, paths []string) {
	fmt.Fprintln(w, formatter.Header("Written"))
	for _, p := range paths {
		fmt.Fprintln(w, "  "+p)
	}
}
