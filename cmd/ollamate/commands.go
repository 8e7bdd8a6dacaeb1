package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ollamate/ollamate/internal/config"
	"github.com/ollamate/ollamate/internal/ollama"
)

// --- models ---

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}

		catalog, err := ollama.LoadCatalog(cmd.Context(), client)
		if err != nil {
			return err
		}

		return printModels(os.Stdout, catalog)
	},
}

func printModels(w io.Writer, catalog *ollama.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFAMILY\tPARAMS\tLOADED")
	for _, m := range catalog.Installed() {
		loaded := ""
		if catalog.Resident(m.Name) {
			loaded = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Details.Family, m.Details.ParameterSize, loaded)
	}
	return tw.Flush()
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and server versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("ollamate version %s\n", version)

		_, client, err := setup()
		if err != nil {
			return err
		}

		v, err := client.Version(cmd.Context())
		if err != nil {
			printWarning("ollama is not reachable")
			return nil
		}
		fmt.Printf("ollama version %s\n", v)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configured value so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}

		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
