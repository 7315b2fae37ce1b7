package cli

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docsearch/internal/adapter/fs"
)

var (
	ingestTexts []string
	ingestMeta  []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest texts or files into the index",
	Long: `Ingest documents into the index. Texts can be passed inline with
--text, or read from files under a directory matched by the configured
include/exclude globs.

Examples:
  docsearch ingest --text "hello world" --meta lang=en
  docsearch ingest ./notes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringArrayVar(&ingestTexts, "text", nil, "text to ingest (repeatable)")
	ingestCmd.Flags().StringArrayVar(&ingestMeta, "meta", nil, "metadata as key=value (repeatable)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	metadata, err := parseMetadata(ingestMeta)
	if err != nil {
		return err
	}

	idx, docs, _, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	if len(ingestTexts) > 0 {
		ids, err := docs.Ingest(ingestTexts, metadata)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("nothing to ingest: pass --text or a directory path")
	}

	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	files, err := walker.Walk(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	ingested := 0
	for i, path := range files {
		text, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		fileMeta := map[string]any{"path": path}
		for k, v := range metadata {
			fileMeta[k] = v
		}

		if _, err := docs.Ingest([]string{text}, fileMeta); err != nil {
			return fmt.Errorf("ingest failed at %s: %w", path, err)
		}

		ingested++
		bar.Set(i + 1)
	}

	fmt.Printf("Ingested %d documents into %q.\n", ingested, cfg.Index.Name)
	return nil
}

func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		meta[k] = v
	}
	return meta, nil
}
