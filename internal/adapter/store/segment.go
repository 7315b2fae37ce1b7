package store

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"docsearch/internal/adapter/analyzer"
	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// BM25 parameters used by the match clause.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type indexedDoc struct {
	text      string
	metadata  map[string]any
	tokens    []string
	embedding []float32
}

// segment is the searchable snapshot of a collection. Writes are staged
// in a pending set and only join the snapshot on publish, so a search
// never sees a write that has not been refreshed.
type segment struct {
	mu        sync.RWMutex
	tokenizer *analyzer.Tokenizer
	visible   map[string]indexedDoc
	pending   map[string]*indexedDoc // nil entry marks a staged delete
}

func newSegment() *segment {
	return &segment{
		tokenizer: analyzer.NewTokenizer(),
		visible:   make(map[string]indexedDoc),
		pending:   make(map[string]*indexedDoc),
	}
}

func (s *segment) indexDoc(doc domain.Document) indexedDoc {
	return indexedDoc{
		text:      doc.Text,
		metadata:  doc.Metadata,
		tokens:    s.tokenizer.Tokenize(doc.Text),
		embedding: doc.Embedding,
	}
}

// load places a document directly into the snapshot, bypassing staging.
// Used when rebuilding the snapshot from persisted state at open.
func (s *segment) load(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible[doc.ID] = s.indexDoc(doc)
}

func (s *segment) stagePut(doc domain.Document) {
	entry := s.indexDoc(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[doc.ID] = &entry
}

func (s *segment) stageDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = nil
}

// publish applies all staged writes to the snapshot.
func (s *segment) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.pending {
		if entry == nil {
			delete(s.visible, id)
		} else {
			s.visible[id] = *entry
		}
	}
	s.pending = make(map[string]*indexedDoc)
}

// search evaluates one retrieval request against the snapshot. A hit's
// score is the sum of its match-clause score (when the clause matches)
// and its cosine score (when it is among the k nearest neighbors).
func (s *segment) search(req port.SearchRequest) []domain.Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make(map[string]float64)

	if req.Match != nil {
		for id, score := range s.matchScores(req.Match.Query) {
			scores[id] += score
		}
	}

	if req.KNN != nil {
		for id, score := range s.knnScores(req.KNN) {
			scores[id] += score
		}
	}

	hits := make([]domain.Hit, 0, len(scores))
	for id, score := range scores {
		doc := s.visible[id]
		hits = append(hits, domain.Hit{
			ID:       id,
			Text:     doc.text,
			Metadata: doc.metadata,
			Score:    score,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if req.Size > 0 && len(hits) > req.Size {
		hits = hits[:req.Size]
	}

	return hits
}

// matchScores ranks snapshot documents against the query terms with BM25.
func (s *segment) matchScores(query string) map[string]float64 {
	queryTokens := s.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 || len(s.visible) == 0 {
		return nil
	}

	n := float64(len(s.visible))
	var totalLen int
	for _, doc := range s.visible {
		totalLen += len(doc.tokens)
	}
	avgDl := float64(totalLen) / n

	scores := make(map[string]float64)
	for _, term := range queryTokens {
		df := 0.0
		for _, doc := range s.visible {
			if termFreq(doc.tokens, term) > 0 {
				df++
			}
		}
		if df == 0 {
			continue
		}

		idf := math.Log((n-df+0.5)/(df+0.5) + 1)

		for id, doc := range s.visible {
			tf := float64(termFreq(doc.tokens, term))
			if tf == 0 {
				continue
			}
			dl := float64(len(doc.tokens))
			scores[id] += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*dl/avgDl))
		}
	}

	return scores
}

// knnScores returns cosine scores for the k nearest neighbors of the
// query vector, drawn from a candidate pool of at most NumCandidates.
func (s *segment) knnScores(clause *port.KNNClause) map[string]float64 {
	if len(s.visible) == 0 {
		return nil
	}

	type scored struct {
		id    string
		score float64
	}

	candidates := make([]scored, 0, len(s.visible))
	for id, doc := range s.visible {
		candidates = append(candidates, scored{
			id:    id,
			score: cosineSimilarity(clause.Vector, doc.embedding),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	if clause.NumCandidates > 0 && len(candidates) > clause.NumCandidates {
		candidates = candidates[:clause.NumCandidates]
	}
	if clause.K > 0 && len(candidates) > clause.K {
		candidates = candidates[:clause.K]
	}

	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		scores[c.id] = c.score
	}
	return scores
}

func termFreq(tokens []string, term string) int {
	tf := 0
	for _, t := range tokens {
		if t == term {
			tf++
		}
	}
	return tf
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func checkDimension(dimension int, vec []float32) error {
	if len(vec) != dimension {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, dimension, len(vec))
	}
	return nil
}
