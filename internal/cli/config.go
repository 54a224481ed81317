package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skgd-labs/skgd/internal/catalog"
	"github.com/skgd-labs/skgd/internal/config"
	"github.com/skgd-labs/skgd/internal/templates"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user defaults",
	Long: `Read and write the defaults used by init and upgrade, stored at
~/.skgd-cli/config.yaml. Environment variables such as SKGD_LANG override
the file.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a default",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigValue(key, value); err != nil {
			return err
		}
		store := config.LoadDefault()
		if err := store.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.LoadDefault().Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := config.LoadDefault()
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, dimStyle.Render(store.Path()))
		for _, key := range config.Keys {
			value := store.Get(key)
			if value == "" {
				value = dimStyle.Render("(unset)")
			}
			fmt.Fprintf(w, "  %-8s %s\n", key, value)
		}
		return nil
	},
}

// checkConfigValue rejects values init would refuse anyway.
func checkConfigValue(key, value string) error {
	switch key {
	case config.KeyLanguage:
		return checkChoice("language", value, templates.Embedded().Languages())
	case config.KeyEngine:
		return checkChoice("engine", value, catalog.Keys(catalog.Engines))
	case config.KeyModel:
		return checkChoice("model", value, catalog.Keys(catalog.Models))
	case config.KeyShell:
		return checkChoice("shell", value, catalog.Keys(catalog.Shells))
	}
	return nil
}
