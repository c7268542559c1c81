package cli

import (
	"fmt"

	"github.com/alexanderramin/glazingpm/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the project registry",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var f projectFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new project",
		Long: "Register a new project. The next P### number is assigned unless --id is given.\n" +
			"Without --name on an interactive terminal, a form asks for the details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Name == "" {
				if !app.interactive() {
					return fmt.Errorf("--name is required")
				}
				if err := projectForm(&f).Run(); err != nil {
					return fmt.Errorf("project form: %w", err)
				}
			}

			p, err := f.project()
			if err != nil {
				return err
			}
			if err := app.Projects.Create(commandContext(cmd), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.StylePurple.Render(p.ShortID), p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.ShortID, "id", "", "Project number (e.g. P042); allocated when omitted")
	cmd.Flags().StringVar(&f.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.Client, "client", "", "Client or general contractor")
	cmd.Flags().StringVar(&f.Location, "location", "", "Project location")
	cmd.Flags().StringVar(&f.Value, "value", "", "Contract value (e.g. 610000 or $610,000.00)")
	cmd.Flags().StringVar(&f.Start, "start", "", "Contract start date (YYYY-MM-DD)")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project and its generated versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return fmt.Errorf("project %q: %w", args[0], err)
			}
			history, err := app.Generation.History(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, history))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete a project and every output set generated for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return fmt.Errorf("project %q: %w", args[0], err)
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s %s\n", p.ShortID, p.Name)
			return nil
		},
	}
}
