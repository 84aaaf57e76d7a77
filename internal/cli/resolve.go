package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/slnstart/internal/engine"
	"github.com/danieljhkim/slnstart/internal/startup"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <solution.sln>",
	Short: "Show the startup projects of a solution",
	Long: `Print the startup projects slnstart would write, and whether they come from
the override file or from inspecting each project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}

		result, err := newEngine().Resolve(cmd.Context(), &engine.ResolveRequest{
			CWD:          cwd,
			SolutionPath: args[0],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Startup projects")
		PrintLabelValue("Solution", result.SolutionPath)
		if result.Source == startup.SourceOverride {
			PrintLabelValue("Source", "override file "+result.OverridePath)
			PrintList(result.ProjectIDs, 1)
			return nil
		}

		PrintLabelValue("Source", "project inspection")
		PrintInfo("")
		var rows [][]string
		for _, p := range result.Projects {
			if p.Eligible {
				rows = append(rows, []string{p.ID, p.RelativePath, p.Rule})
			}
		}
		PrintTable([]string{"ID", "PROJECT", "RULE"}, rows)
		return nil
	},
}

// resolveAgainst joins a relative path onto cwd.
func resolveAgainst(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
