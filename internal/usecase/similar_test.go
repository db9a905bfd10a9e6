package usecase

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"capembed/internal/adapter/vectorcsv"
	"capembed/internal/domain"
)

func similarFixture(t *testing.T) *SimilarUseCase {
	t.Helper()
	store := vectorcsv.NewStore(filepath.Join(t.TempDir(), "embeddings.csv"))
	// Against ref [1,0]: same direction scores 1, orthogonal 0, opposite -1,
	// and near lands just under 1.
	err := store.WriteAll([]domain.EmbeddingRecord{
		{PID: "ref", Vector: []float32{1, 0}},
		{PID: "same", Vector: []float32{2, 0}},
		{PID: "ortho", Vector: []float32{0, 3}},
		{PID: "oppose", Vector: []float32{-1, 0}},
		{PID: "near", Vector: []float32{1, 0.25}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewSimilarUseCase(store)
}

func TestSimilarRanking(t *testing.T) {
	uc := similarFixture(t)

	neighbors, err := uc.Similar("ref", 0)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}

	if len(neighbors) != 4 {
		t.Fatalf("expected 4 neighbors, got %d", len(neighbors))
	}

	wantOrder := []string{"same", "near", "ortho", "oppose"}
	for i, pid := range wantOrder {
		if neighbors[i].PID != pid {
			t.Errorf("position %d: expected %s, got %s (%.4f)", i, pid, neighbors[i].PID, neighbors[i].Score)
		}
	}

	if math.Abs(neighbors[0].Score-1) > 1e-9 {
		t.Errorf("expected score 1 for identical direction, got %v", neighbors[0].Score)
	}
	if math.Abs(neighbors[2].Score) > 1e-9 {
		t.Errorf("expected score 0 for orthogonal vector, got %v", neighbors[2].Score)
	}
	if math.Abs(neighbors[3].Score+1) > 1e-9 {
		t.Errorf("expected score -1 for opposite vector, got %v", neighbors[3].Score)
	}
}

func TestSimilarExcludesReference(t *testing.T) {
	uc := similarFixture(t)

	neighbors, err := uc.Similar("ref", 0)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	for _, n := range neighbors {
		if n.PID == "ref" {
			t.Error("reference project must not rank against itself")
		}
	}
}

func TestSimilarTopK(t *testing.T) {
	uc := similarFixture(t)

	neighbors, err := uc.Similar("ref", 2)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].PID != "same" || neighbors[1].PID != "near" {
		t.Errorf("unexpected top-2: %v, %v", neighbors[0].PID, neighbors[1].PID)
	}
}

func TestSimilarUnknownPID(t *testing.T) {
	uc := similarFixture(t)

	_, err := uc.Similar("999", 5)
	if err == nil {
		t.Fatal("expected error for unknown identifier")
	}
	if !strings.Contains(err.Error(), "999") {
		t.Errorf("error should name the identifier: %v", err)
	}
}

func TestSimilarDimensionMismatch(t *testing.T) {
	store := vectorcsv.NewStore(filepath.Join(t.TempDir(), "embeddings.csv"))
	err := store.WriteAll([]domain.EmbeddingRecord{
		{PID: "a", Vector: []float32{1, 0}},
		{PID: "b", Vector: []float32{1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewSimilarUseCase(store).Similar("a", 5); err == nil {
		t.Fatal("expected error for ragged embeddings file")
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}); math.Abs(got-1) > 1e-12 {
		t.Errorf("identical vectors: expected 1, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: expected 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("length mismatch: expected 0, got %v", got)
	}
}
