package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/slnstart/internal/engine"
)

var listCmd = &cobra.Command{
	Use:   "list <solution.sln>",
	Short: "List every project with its startup eligibility",
	Long: `Inspect every project of a solution and show whether it would be chosen as a
startup project, and which rule decided. The override file is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}

		result, err := newEngine().List(cmd.Context(), &engine.ListRequest{
			CWD:          cwd,
			SolutionPath: args[0],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Projects")
		if len(result.Projects) == 0 {
			PrintEmptyState("No projects found")
			return nil
		}

		rows := make([][]string, 0, len(result.Projects))
		for _, p := range result.Projects {
			startup := "no"
			if p.Eligible {
				startup = "yes"
			}
			rows = append(rows, []string{p.RelativePath, startup, p.Rule, p.ID})
		}
		PrintTable([]string{"PROJECT", "STARTUP", "RULE", "ID"}, rows)

		if result.OverridePath != "" {
			PrintInfo("")
			PrintWarning("Override file present, 'set' will use " + result.OverridePath)
		}
		return nil
	},
}
