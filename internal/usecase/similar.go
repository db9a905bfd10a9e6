package usecase

import (
	"fmt"
	"math"
	"sort"

	"capembed/internal/adapter/vectorcsv"
	"capembed/internal/domain"
)

// SimilarUseCase ranks projects by cosine similarity against one reference
// project. The embeddings file is its only input; every comparison is brute
// force over the loaded vectors, which is plenty for a few thousand rows.
type SimilarUseCase struct {
	store *vectorcsv.Store
}

// NewSimilarUseCase creates a new similar use case.
func NewSimilarUseCase(store *vectorcsv.Store) *SimilarUseCase {
	return &SimilarUseCase{store: store}
}

// Similar returns the k nearest projects to the given identifier, best
// first. The reference project itself is excluded from the ranking. k <= 0
// returns all neighbors.
func (u *SimilarUseCase) Similar(pid string, k int) ([]domain.Neighbor, error) {
	records, err := u.store.ReadAll()
	if err != nil {
		return nil, err
	}

	var ref []float32
	found := false
	for _, rec := range records {
		if rec.PID == pid {
			ref = rec.Vector
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no embedding for identifier %q in %s", pid, u.store.Path())
	}

	neighbors := make([]domain.Neighbor, 0, len(records))
	for _, rec := range records {
		if rec.PID == pid {
			continue
		}
		if len(rec.Vector) != len(ref) {
			return nil, fmt.Errorf("dimension mismatch: %q has %d components, %q has %d",
				rec.PID, len(rec.Vector), pid, len(ref))
		}
		neighbors = append(neighbors, domain.Neighbor{
			PID:   rec.PID,
			Score: cosineSimilarity(ref, rec.Vector),
		})
	}

	// Sort by score descending; stable so equal scores keep file order.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})

	if k > 0 && k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
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
