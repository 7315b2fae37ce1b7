package port

import "docsearch/internal/domain"

// Index is the backing store contract: a document store keyed by id with
// term-match and nearest-neighbor retrieval. Writes are durable
// immediately but only become visible to Search after Refresh.
type Index interface {
	// Ping reports whether the store is reachable.
	Ping() error

	// EnsureCollection creates the document collection if it does not
	// exist. Safe to call repeatedly.
	EnsureCollection() error

	// GetDoc returns the current document by id, regardless of refresh
	// state. Returns domain.ErrNotFound if the id does not exist.
	GetDoc(id string) (domain.Document, error)

	// PutDoc creates or fully replaces a document.
	PutDoc(doc domain.Document) error

	// DeleteDoc removes a document. Returns domain.ErrNotFound if the
	// id does not exist.
	DeleteDoc(id string) error

	// Search runs a single retrieval request against the collection.
	Search(req SearchRequest) ([]domain.Hit, error)

	// Refresh makes all writes issued so far visible to Search.
	Refresh() error

	Close() error
}

// SearchRequest is one retrieval request. Match and KNN may be set
// independently; when both are present the store combines their scores
// in a single ranked result.
type SearchRequest struct {
	// Size caps the number of returned hits.
	Size int

	// Match is an optional full-text clause against the text field.
	Match *MatchClause

	// KNN is an optional nearest-neighbor clause against the embedding
	// field.
	KNN *KNNClause
}

// MatchClause ranks documents by term overlap with the query.
type MatchClause struct {
	Query string
}

// KNNClause ranks documents by cosine similarity to the query vector.
type KNNClause struct {
	Vector []float32
	// K is the number of nearest neighbors to retrieve.
	K int
	// NumCandidates sizes the candidate pool explored by the
	// approximate search.
	NumCandidates int
}
