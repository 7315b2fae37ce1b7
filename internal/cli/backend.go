package cli

import (
	"fmt"

	"docsearch/config"
	"docsearch/internal/adapter/embedding"
	"docsearch/internal/adapter/store"
	"docsearch/internal/port"
	"docsearch/internal/usecase"
)

func openIndex(cfg *config.Config) (port.Index, error) {
	switch cfg.Backend.Driver {
	case "bolt":
		return store.NewBoltIndex(cfg.Backend.Path, cfg.Index.Name, cfg.Embedding.Dimension)
	case "sqlite":
		return store.NewSQLiteIndex(cfg.Backend.Path, cfg.Index.Name, cfg.Embedding.Dimension)
	case "memory":
		return store.NewMemoryIndex(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported backend driver: %s", cfg.Backend.Driver)
	}
}

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimension), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(
			cfg.Embedding.APIKeyEnv,
			cfg.Embedding.Model,
			cfg.Embedding.BaseURL,
			cfg.Embedding.Dimension,
		)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newServices opens the backend, verifies it is reachable, and wires the
// lifecycle and search services. The caller owns closing the index.
func newServices(cfg *config.Config) (port.Index, *usecase.DocumentService, *usecase.SearchService, error) {
	idx, err := openIndex(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := idx.Ping(); err != nil {
		idx.Close()
		return nil, nil, nil, fmt.Errorf("cannot reach backend at %s: %w", cfg.Backend.Path, err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		idx.Close()
		return nil, nil, nil, err
	}

	docs := usecase.NewDocumentService(idx, embedder, cfg.Index.Name)
	search := usecase.NewSearchService(idx, embedder)
	return idx, docs, search, nil
}
