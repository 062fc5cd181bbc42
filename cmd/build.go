package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rjauquet/sitegen/internal/builder"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site once and exits",
	Long: `The build command reads the template and every fragment in the content
directory, splices each fragment in at the {{content}} marker line, and
writes the generated pages to the output directory. Markdown fragments are
rendered to HTML first; everything else is spliced verbatim.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return builder.New(appConfig, siteData).Build()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
