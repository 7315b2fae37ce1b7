package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateText string
	updateMeta []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a document's text or metadata",
	Long: `Fully replace a document's text and/or metadata. Omitted fields keep
their current values; the embedding is recomputed on every update.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	updateCmd.Flags().StringVar(&updateText, "text", "", "new text")
	updateCmd.Flags().StringArrayVar(&updateMeta, "meta", nil, "new metadata as key=value (repeatable, replaces all metadata)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	metadata, err := parseMetadata(updateMeta)
	if err != nil {
		return err
	}

	var text *string
	if cmd.Flags().Changed("text") {
		text = &updateText
	}
	if text == nil && metadata == nil {
		return fmt.Errorf("nothing to update: pass --text or --meta")
	}

	idx, docs, _, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	doc, err := docs.Update(args[0], text, metadata)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Updated %s: %s\n", doc.ID, doc.Text)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	idx, docs, _, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := docs.Delete(args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
