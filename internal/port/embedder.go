package port

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	// Embed generates the embedding vector for the given text.
	// The returned vector always has exactly Dimension() elements.
	Embed(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// Name returns the name of the embedding strategy.
	Name() string
}
