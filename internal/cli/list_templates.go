package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skgd-labs/skgd/internal/catalog"
)

func init() {
	rootCmd.AddCommand(listTemplatesCmd)
}

var listTemplatesCmd = &cobra.Command{
	Use:   "list-templates",
	Short: "List available game type templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printTemplates(cmd.OutOrStdout())
		return nil
	},
}

func printTemplates(w io.Writer) {
	printBanner(w)
	fmt.Fprintln(w, "Available game type templates:")
	fmt.Fprintln(w)
	for _, t := range catalog.GameTemplates {
		fmt.Fprintf(w, "  - %s: %s\n", accentStyle.Render(t.Key), t.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template is selected during /init command in Claude Code.")
}
