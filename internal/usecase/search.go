package usecase

import (
	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// SearchService answers queries with three retrieval strategies, each a
// single request against the backing store.
type SearchService struct {
	index    port.Index
	embedder port.Embedder
}

func NewSearchService(index port.Index, embedder port.Embedder) *SearchService {
	return &SearchService{
		index:    index,
		embedder: embedder,
	}
}

// Lexical ranks documents by term overlap with the query.
func (s *SearchService) Lexical(query string, topK int) ([]domain.Hit, error) {
	return s.index.Search(port.SearchRequest{
		Size:  topK,
		Match: &port.MatchClause{Query: query},
	})
}

// Semantic embeds the query and ranks documents by cosine similarity.
func (s *SearchService) Semantic(query string, topK int) ([]domain.Hit, error) {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, err
	}

	return s.index.Search(port.SearchRequest{
		Size: topK,
		KNN: &port.KNNClause{
			Vector:        vec,
			K:             topK,
			NumCandidates: candidatePool(topK),
		},
	})
}

// Hybrid issues one request carrying both the lexical clause and the
// nearest-neighbor clause. The ranking is the store's default
// combination of the two clause scores; no separate fusion stage.
func (s *SearchService) Hybrid(query string, topK int) ([]domain.Hit, error) {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, err
	}

	return s.index.Search(port.SearchRequest{
		Size:  topK,
		Match: &port.MatchClause{Query: query},
		KNN: &port.KNNClause{
			Vector:        vec,
			K:             topK,
			NumCandidates: candidatePool(topK),
		},
	})
}

// candidatePool sizes the approximate-search pool, trading recall for
// latency.
func candidatePool(topK int) int {
	if n := topK * 20; n > 100 {
		return n
	}
	return 100
}
