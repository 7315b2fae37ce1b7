package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

func newTestSQLite(t *testing.T) (*SQLiteIndex, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := NewSQLiteIndex(path, "phrases", 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	if err := idx.EnsureCollection(); err != nil {
		t.Fatal(err)
	}
	return idx, path
}

func TestSQLiteIndex_InvalidCollectionName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	if _, err := NewSQLiteIndex(path, "no;drop", 2); err == nil {
		t.Error("expected error for invalid collection name")
	}
}

func TestSQLiteIndex_PutGet(t *testing.T) {
	idx, _ := newTestSQLite(t)

	want := domain.Document{
		ID:        "d1",
		Text:      "hello world",
		Metadata:  map[string]any{"lang": "en", "rank": 3.0},
		Embedding: []float32{0.5, 0.25},
	}
	if err := idx.PutDoc(want); err != nil {
		t.Fatal(err)
	}

	got, err := idx.GetDoc("d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != want.Text {
		t.Errorf("Text = %q, want %q", got.Text, want.Text)
	}
	if got.Metadata["lang"] != "en" || got.Metadata["rank"] != 3.0 {
		t.Errorf("Metadata = %v", got.Metadata)
	}
	if !reflect.DeepEqual(got.Embedding, want.Embedding) {
		t.Errorf("Embedding = %v, want %v", got.Embedding, want.Embedding)
	}
}

func TestSQLiteIndex_NilMetadata(t *testing.T) {
	idx, _ := newTestSQLite(t)

	if err := idx.PutDoc(doc("d1", "hello", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}

	got, err := idx.GetDoc("d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata != nil {
		t.Errorf("expected nil metadata, got %v", got.Metadata)
	}
}

func TestSQLiteIndex_UpsertReplaces(t *testing.T) {
	idx, _ := newTestSQLite(t)

	if err := idx.PutDoc(doc("d1", "hello", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := idx.PutDoc(doc("d1", "goodbye", []float32{0, 1})); err != nil {
		t.Fatal(err)
	}

	got, err := idx.GetDoc("d1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "goodbye" {
		t.Errorf("Text = %q, want goodbye", got.Text)
	}
}

func TestSQLiteIndex_NotFound(t *testing.T) {
	idx, _ := newTestSQLite(t)

	if _, err := idx.GetDoc("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound from get, got %v", err)
	}
	if err := idx.DeleteDoc("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound from delete, got %v", err)
	}
}

func TestSQLiteIndex_DimensionMismatch(t *testing.T) {
	idx, _ := newTestSQLite(t)

	err := idx.PutDoc(doc("d1", "hello", []float32{1}))
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSQLiteIndex_RefreshVisibility(t *testing.T) {
	idx, _ := newTestSQLite(t)

	if err := idx.PutDoc(doc("d1", "hello world", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(port.SearchRequest{Size: 5, Match: &port.MatchClause{Query: "hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("write visible before refresh: %v", hits)
	}

	if err := idx.Refresh(); err != nil {
		t.Fatal(err)
	}

	hits, err = idx.Search(port.SearchRequest{Size: 5, Match: &port.MatchClause{Query: "hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "d1" {
		t.Fatalf("expected d1 after refresh, got %v", hits)
	}
}

func TestSQLiteIndex_SnapshotReload(t *testing.T) {
	idx, path := newTestSQLite(t)

	if err := idx.PutDoc(doc("d1", "hello world", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteIndex(path, "phrases", 2)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	hits, err := reopened.Search(port.SearchRequest{Size: 5, Match: &port.MatchClause{Query: "hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "d1" {
		t.Fatalf("expected d1 after reopen, got %v", hits)
	}
}

func TestVectorEncoding_Roundtrip(t *testing.T) {
	vecs := [][]float32{
		{},
		{0},
		{1.5, -2.25, 0.001},
		{0.12345, 0.99999},
	}
	for _, want := range vecs {
		got, err := decodeVector(encodeVector(want))
		if err != nil {
			t.Fatalf("decode failed for %v: %v", want, err)
		}
		if len(got) != len(want) {
			t.Fatalf("length mismatch: %v vs %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("component %d: %f != %f", i, got[i], want[i])
			}
		}
	}
}

func TestVectorEncoding_Corrupt(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2}); err == nil {
		t.Error("expected error for short blob")
	}
	if _, err := decodeVector([]byte{2, 0, 0, 0, 1, 2, 3, 4}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
