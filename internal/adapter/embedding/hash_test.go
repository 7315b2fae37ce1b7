package embedding

import "testing"

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.Embed("hello world")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed("hello world")
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d differs: %f != %f", i, a[i], b[i])
		}
	}
}

func TestHashEmbedder_Dimension(t *testing.T) {
	for _, dim := range []int{1, 8, 64, 1536} {
		e := NewHashEmbedder(dim)
		vec, err := e.Embed("some text")
		if err != nil {
			t.Fatal(err)
		}
		if len(vec) != dim {
			t.Errorf("dim %d: got vector of length %d", dim, len(vec))
		}
		if e.Dimension() != dim {
			t.Errorf("Dimension() = %d, want %d", e.Dimension(), dim)
		}
	}
}

func TestHashEmbedder_Range(t *testing.T) {
	e := NewHashEmbedder(128)

	for _, text := range []string{"", "a", "hello world", "ñandú über 北京"} {
		vec, err := e.Embed(text)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range vec {
			if v < 0 || v >= 1 {
				t.Errorf("text %q component %d out of [0,1): %f", text, i, v)
			}
		}
	}
}

func TestHashEmbedder_DistinctTexts(t *testing.T) {
	e := NewHashEmbedder(64)

	a, _ := e.Embed("hello world")
	b, _ := e.Embed("goodbye world")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

func TestHashEmbedder_Name(t *testing.T) {
	if got := NewHashEmbedder(8).Name(); got != "hash" {
		t.Errorf("Name() = %q, want hash", got)
	}
}
