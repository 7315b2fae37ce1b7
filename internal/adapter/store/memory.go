package store

import (
	"fmt"
	"sync"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// MemoryIndex implements the Index contract entirely in memory. It keeps
// the same refresh-gated search visibility as the persistent backends.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	docs      map[string]domain.Document
	seg       *segment
}

func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		docs:      make(map[string]domain.Document),
		seg:       newSegment(),
	}
}

func (s *MemoryIndex) Ping() error {
	return nil
}

func (s *MemoryIndex) EnsureCollection() error {
	return nil
}

func (s *MemoryIndex) GetDoc(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return doc, nil
}

func (s *MemoryIndex) PutDoc(doc domain.Document) error {
	if err := checkDimension(s.dimension, doc.Embedding); err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	s.seg.stagePut(doc)
	return nil
}

func (s *MemoryIndex) DeleteDoc(id string) error {
	s.mu.Lock()
	_, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	s.seg.stageDelete(id)
	return nil
}

func (s *MemoryIndex) Search(req port.SearchRequest) ([]domain.Hit, error) {
	return s.seg.search(req), nil
}

func (s *MemoryIndex) Refresh() error {
	s.seg.publish()
	return nil
}

func (s *MemoryIndex) Close() error {
	return nil
}
