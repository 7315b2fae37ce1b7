package domain

// Document is a stored text with its derived embedding and opaque metadata.
type Document struct {
	ID        string
	Text      string
	Metadata  map[string]any
	Embedding []float32
}

// Hit is a single search result.
type Hit struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// Health reports the service's backend and embedding configuration.
type Health struct {
	BackendReachable  bool   `json:"backend_reachable"`
	IndexName         string `json:"index"`
	EmbeddingDim      int    `json:"embedding_dim"`
	EmbeddingProvider string `json:"embedding_provider"`
}
