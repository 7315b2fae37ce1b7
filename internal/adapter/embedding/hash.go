package embedding

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashEmbedder derives vectors from a SHA-256 hash of the text. Identical
// text always yields an identical vector; similarity between distinct
// texts carries no semantic meaning. It exists for deterministic,
// dependency-free operation and testing.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	return &HashEmbedder{dimension: dimension}
}

func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	// Stretch the digest by repetition to at least 4 bytes per component.
	need := e.dimension * 4
	stream := make([]byte, 0, need+len(digest))
	for len(stream) < need {
		stream = append(stream, digest[:]...)
	}

	vec := make([]float32, e.dimension)
	for i := 0; i < e.dimension; i++ {
		n := binary.LittleEndian.Uint32(stream[i*4 : (i+1)*4])
		vec[i] = float32(n%100000) / 100000.0
	}
	return vec, nil
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

func (e *HashEmbedder) Name() string {
	return "hash"
}
