package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/slnstart/internal/variant"
)

type variantInfo struct {
	Name     string `json:"name"`
	Layout   string `json:"layout"`
	Path     string `json:"path"`
	Template string `json:"template"`
	Default  bool   `json:"default"`
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List the supported Visual Studio versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := make(map[string]bool)
		for _, v := range variant.Default() {
			defaults[v.Name] = true
		}

		var infos []variantInfo
		for _, v := range variant.All() {
			infos = append(infos, variantInfo{
				Name:     v.Name,
				Layout:   string(v.Layout),
				Path:     v.Target("<solution>.sln").Path,
				Template: v.TemplateID,
				Default:  defaults[v.Name],
			})
		}

		if jsonOutput {
			return outputJSON(infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			def := ""
			if info.Default {
				def = "*"
			}
			rows = append(rows, []string{info.Name + def, info.Path, info.Template})
		}
		PrintTable([]string{"VERSION", "PATH", "TEMPLATE"}, rows)
		PrintInfo("")
		PrintInfo("* written when --vs is not given")
		return nil
	},
}
