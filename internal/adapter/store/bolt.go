package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// BoltIndex implements the Index contract on a bbolt file. One bucket
// per collection holds the document records; a full snapshot is loaded
// into the segment at open.
type BoltIndex struct {
	db         *bbolt.DB
	collection string
	dimension  int
	seg        *segment
}

type boltRecord struct {
	Text      string         `json:"text"`
	Meta      map[string]any `json:"meta,omitempty"`
	Embedding []float32      `json:"embedding"`
}

func NewBoltIndex(path, collection string, dimension int) (*BoltIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt db: %v", domain.ErrBackendUnavailable, err)
	}

	idx := &BoltIndex{
		db:         db,
		collection: collection,
		dimension:  dimension,
		seg:        newSegment(),
	}

	if err := idx.loadSnapshot(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return idx, nil
}

func (s *BoltIndex) loadSnapshot() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt record %s: %w", k, err)
			}
			s.seg.load(domain.Document{
				ID:        string(k),
				Text:      rec.Text,
				Metadata:  rec.Meta,
				Embedding: rec.Embedding,
			})
			return nil
		})
	})
}

func (s *BoltIndex) Ping() error {
	if err := s.db.View(func(tx *bbolt.Tx) error { return nil }); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *BoltIndex) EnsureCollection() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(s.collection))
		return err
	})
}

func (s *BoltIndex) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.collection))
		if b == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		var rec boltRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		doc = domain.Document{
			ID:        id,
			Text:      rec.Text,
			Metadata:  rec.Meta,
			Embedding: rec.Embedding,
		}
		return nil
	})
	return doc, err
}

func (s *BoltIndex) PutDoc(doc domain.Document) error {
	if err := checkDimension(s.dimension, doc.Embedding); err != nil {
		return err
	}

	data, err := json.Marshal(boltRecord{
		Text:      doc.Text,
		Meta:      doc.Metadata,
		Embedding: doc.Embedding,
	})
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(s.collection))
		if err != nil {
			return err
		}
		return b.Put([]byte(doc.ID), data)
	})
	if err != nil {
		return err
	}

	s.seg.stagePut(doc)
	return nil
}

func (s *BoltIndex) DeleteDoc(id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.collection))
		if b == nil || b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}

	s.seg.stageDelete(id)
	return nil
}

func (s *BoltIndex) Search(req port.SearchRequest) ([]domain.Hit, error) {
	return s.seg.search(req), nil
}

func (s *BoltIndex) Refresh() error {
	s.seg.publish()
	return nil
}

func (s *BoltIndex) Close() error {
	return s.db.Close()
}
