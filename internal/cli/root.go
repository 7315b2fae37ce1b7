package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Document indexing and retrieval with lexical, semantic, and hybrid search",
	Long: `docsearch stores short text documents with derived embedding vectors
and answers queries with three strategies: lexical keyword match,
semantic nearest-neighbor match, and a hybrid combination of both.

Example usage:
  docsearch serve                       # Run the HTTP API
  docsearch ingest --text "hello world" # Ingest a phrase
  docsearch search -q "hello" -k 5      # Search indexed documents`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, wderr := os.Getwd()
			if wderr != nil {
				return fmt.Errorf("failed to get working directory: %w", wderr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsearch.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}
