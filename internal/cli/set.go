package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/slnstart/internal/config"
	"github.com/danieljhkim/slnstart/internal/engine"
	"github.com/danieljhkim/slnstart/internal/fsops"
	"github.com/danieljhkim/slnstart/internal/variant"
)

var (
	setVersions    []string
	setProjects    []string
	setTemplateDir string
	setFallback    bool
	setDryRun      bool
)

var setCmd = &cobra.Command{
	Use:   "set <solution.sln>",
	Short: "Write the startup projects into the solution's option files",
	Long: `Resolve the startup projects of a solution and write them into the .suo
file of each requested Visual Studio version.

Existing option files are replaced. Each new file is built from the version's
template found in the template directory; when a template is missing, a blank
option file is written unless --fallback=false is given.

Examples:
  slnstart set App.sln
  slnstart set App.sln --vs 2019,2022
  slnstart set App.sln --project {6DE93070-C47B-4FA6-86FF-421115654E6C}
  slnstart set App.sln --dry-run --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringSliceVar(&setVersions, "vs", nil, "Visual Studio versions to write (see 'slnstart variants')")
	setCmd.Flags().StringSliceVar(&setProjects, "project", nil, "Startup project ids, bypassing resolution")
	setCmd.Flags().StringVar(&setTemplateDir, "template-dir", "", "Directory holding the .suotemplate files")
	setCmd.Flags().BoolVar(&setFallback, "fallback", true, "Write a blank option file when a template is missing")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show what would be written without writing")
}

func runSet(cmd *cobra.Command, args []string) error {
	cwd, err := workingDir()
	if err != nil {
		return err
	}

	req, err := buildWriteRequest(cmd, cwd, args[0])
	if err != nil {
		return err
	}

	result, err := newEngine().Write(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	if result.DryRun {
		PrintSection("Dry run")
	} else {
		PrintSection("Startup projects written")
	}
	PrintLabelValue("Solution", result.SolutionPath)
	PrintLabelValue("Source", string(result.Source))
	PrintList(result.ProjectIDs, 1)
	PrintInfo("")

	rows := make([][]string, 0, len(result.Targets))
	for _, tr := range result.Targets {
		rows = append(rows, []string{tr.Variant, tr.Path, shortDigest(tr.Digest)})
	}
	PrintTable([]string{"VERSION", "PATH", "SHA-256"}, rows)
	PrintInfo("")

	if result.DryRun {
		PrintWarning(fmt.Sprintf("Dry run: %s not written", PrintCount(len(result.Targets), "file", "files")))
	} else {
		PrintSuccess(fmt.Sprintf("Wrote %s", PrintCount(len(result.Targets), "file", "files")))
	}
	return nil
}

// buildWriteRequest merges settings: flags win over the settings file and
// environment, which win over built-in defaults.
func buildWriteRequest(cmd *cobra.Command, cwd, solutionPath string) (*engine.WriteRequest, error) {
	cfg, _, err := config.Load(fsops.NewRealFS(), configPath, resolveAgainst(cwd, solutionPath))
	if err != nil {
		return nil, err
	}

	var variants []variant.Variant
	if cmd.Flags().Changed("vs") {
		variants, err = variant.Parse(splitList(setVersions)...)
	} else {
		variants, err = cfg.Variants()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrValidation, err)
	}

	templateDir := cfg.TemplateDir
	if cmd.Flags().Changed("template-dir") {
		templateDir = resolveAgainst(cwd, setTemplateDir)
	}

	fallback := cfg.UseFallback()
	if cmd.Flags().Changed("fallback") {
		fallback = setFallback
	}

	return &engine.WriteRequest{
		CWD:          cwd,
		SolutionPath: solutionPath,
		Variants:     variants,
		ProjectIDs:   splitList(setProjects),
		TemplateDir:  templateDir,
		Fallback:     fallback,
		DryRun:       setDryRun,
	}, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
