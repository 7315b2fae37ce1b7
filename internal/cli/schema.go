package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the document collection if it does not exist",
	RunE:  runSchema,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print backend and embedding status",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(healthCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	idx, docs, _, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := docs.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	fmt.Printf("Collection %q ready (dim=%d).\n", cfg.Index.Name, cfg.Embedding.Dimension)
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	idx, docs, _, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	output, _ := json.MarshalIndent(docs.Health(), "", "  ")
	fmt.Println(string(output))
	return nil
}
