package usecase

import (
	"github.com/google/uuid"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// DocumentService owns the document lifecycle: ingest, update, delete.
// Every mutating operation ends with a visibility sync so the change is
// reflected in subsequent searches before the call returns.
type DocumentService struct {
	index     port.Index
	embedder  port.Embedder
	indexName string
}

func NewDocumentService(index port.Index, embedder port.Embedder, indexName string) *DocumentService {
	return &DocumentService{
		index:     index,
		embedder:  embedder,
		indexName: indexName,
	}
}

// EnsureSchema creates the document collection if it does not exist.
func (s *DocumentService) EnsureSchema() error {
	return s.index.EnsureCollection()
}

// Ingest stores one document per text, all sharing the same metadata,
// and returns the generated ids in input order. Documents are embedded
// and stored sequentially; a failure partway through aborts the batch
// and leaves previously stored documents persisted.
func (s *DocumentService) Ingest(texts []string, metadata map[string]any) ([]string, error) {
	if err := s.index.EnsureCollection(); err != nil {
		return nil, err
	}

	meta := metadata
	if meta == nil {
		meta = map[string]any{}
	}

	ids := make([]string, 0, len(texts))
	for _, text := range texts {
		id := uuid.NewString()

		vec, err := s.embedder.Embed(text)
		if err != nil {
			return nil, err
		}

		if err := s.index.PutDoc(domain.Document{
			ID:        id,
			Text:      text,
			Metadata:  meta,
			Embedding: vec,
		}); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := s.index.Refresh(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Update fully replaces a document. Omitted fields retain their current
// values; the embedding is recomputed unconditionally, even when the
// effective text is unchanged.
func (s *DocumentService) Update(id string, text *string, metadata map[string]any) (domain.Document, error) {
	current, err := s.index.GetDoc(id)
	if err != nil {
		return domain.Document{}, err
	}

	newText := current.Text
	if text != nil {
		newText = *text
	}
	newMeta := current.Metadata
	if metadata != nil {
		newMeta = metadata
	}

	vec, err := s.embedder.Embed(newText)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		ID:        id,
		Text:      newText,
		Metadata:  newMeta,
		Embedding: vec,
	}
	if err := s.index.PutDoc(doc); err != nil {
		return domain.Document{}, err
	}

	if err := s.index.Refresh(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// Delete removes a document by id. Returns domain.ErrNotFound if the id
// does not exist.
func (s *DocumentService) Delete(id string) error {
	if err := s.index.DeleteDoc(id); err != nil {
		return err
	}
	return s.index.Refresh()
}

// Health reports backend reachability and the embedding configuration.
func (s *DocumentService) Health() domain.Health {
	return domain.Health{
		BackendReachable:  s.index.Ping() == nil,
		IndexName:         s.indexName,
		EmbeddingDim:      s.embedder.Dimension(),
		EmbeddingProvider: s.embedder.Name(),
	}
}
