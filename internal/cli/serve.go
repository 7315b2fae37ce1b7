package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP server exposing ingest, document, and search endpoints.

The server refuses to start when the backing store is unreachable, and
ensures the document collection exists before accepting requests.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	idx, docs, search, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := docs.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(docs, search)
	return srv.ListenAndServe(addr)
}
