package domain

import "errors"

var (
	// ErrNotFound is returned when an operation addresses a document id
	// that does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConfig is returned when required configuration is missing for
	// the selected embedding strategy.
	ErrConfig = errors.New("missing configuration")

	// ErrDimensionMismatch is returned when an embedding does not have
	// exactly the configured number of components.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrBackendUnavailable is returned when the backing store cannot be
	// reached.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrEmbedding is returned when the embedding call itself failed.
	ErrEmbedding = errors.New("embedding failed")
)
