package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/slnstart/internal/engine"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.suo>",
	Short: "Show the startup projects stored in an option file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}

		result, err := newEngine().Inspect(cmd.Context(), &engine.InspectRequest{
			CWD:  cwd,
			Path: args[0],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Option file")
		PrintLabelValue("Path", result.Path)
		PrintLabelValue("Entries", PrintCount(len(result.Entries), "entry", "entries"))
		PrintInfo("")
		if len(result.ProjectIDs) == 0 {
			PrintEmptyState("No startup projects")
			return nil
		}
		PrintList(result.ProjectIDs, 1)
		return nil
	},
}
