package usecase

import (
	"math"

	"capembed/internal/adapter/vectorcsv"
)

// VerifyUseCase re-parses an embeddings file and inspects the rows for
// shape problems a downstream consumer would trip over. Parsing is strict:
// one malformed row fails the whole verification.
type VerifyUseCase struct {
	store *vectorcsv.Store
}

// NewVerifyUseCase creates a new verify use case.
func NewVerifyUseCase(store *vectorcsv.Store) *VerifyUseCase {
	return &VerifyUseCase{store: store}
}

// VerifyResult contains the findings for one embeddings file.
type VerifyResult struct {
	Rows          int
	Dimension     int      // dimension of the first row
	RaggedRows    int      // rows whose dimension differs from the first
	DuplicatePIDs []string // identifiers appearing more than once, in order of first repeat
	NonFinite     int      // rows containing NaN or Inf components
}

// Verify reads the whole file back. Findings are reported, never repaired;
// the file on disk is not touched.
func (u *VerifyUseCase) Verify() (*VerifyResult, error) {
	records, err := u.store.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Rows: len(records)}
	counts := make(map[string]int, len(records))

	for i, rec := range records {
		counts[rec.PID]++
		if counts[rec.PID] == 2 {
			result.DuplicatePIDs = append(result.DuplicatePIDs, rec.PID)
		}

		if i == 0 {
			result.Dimension = len(rec.Vector)
		} else if len(rec.Vector) != result.Dimension {
			result.RaggedRows++
		}

		for _, c := range rec.Vector {
			f := float64(c)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				result.NonFinite++
				break
			}
		}
	}

	return result, nil
}

// Clean reports whether verification produced no findings.
func (r *VerifyResult) Clean() bool {
	return r.RaggedRows == 0 && len(r.DuplicatePIDs) == 0 && r.NonFinite == 0
}
