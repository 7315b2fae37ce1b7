package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/domain"
)

var (
	searchQuery string
	searchTopK  int
	searchMode  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed documents",
	Long: `Search indexed documents with one of three strategies: lexical
(term match), semantic (embedding nearest-neighbor), or hybrid (both in
one request).

Examples:
  docsearch search -q "hello world"
  docsearch search -q "hello world" --mode semantic -k 10 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "number of results")
	searchCmd.Flags().StringVar(&searchMode, "mode", "lexical", "search mode: lexical, semantic, or hybrid")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if searchTopK <= 0 {
		return fmt.Errorf("top-k must be positive")
	}

	idx, _, search, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	var hits []domain.Hit
	switch searchMode {
	case "lexical":
		hits, err = search.Lexical(searchQuery, searchTopK)
	case "semantic":
		hits, err = search.Semantic(searchQuery, searchTopK)
	case "hybrid":
		hits, err = search.Hybrid(searchQuery, searchTopK)
	default:
		return fmt.Errorf("unsupported search mode: %s", searchMode)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(hits), searchQuery)
	for i, h := range hits {
		fmt.Printf("--- [%d] %s (score: %.4f) ---\n", i+1, h.ID, h.Score)
		text := h.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
