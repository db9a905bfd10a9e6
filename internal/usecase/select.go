package usecase

import "capembed/internal/domain"

// SelectFirstOccurrence collapses duplicate project rows down to one row per
// identifier, keeping the description seen at each identifier's first
// occurrence. Output order is the order of first appearance. Duplicate
// identifiers are normal in the source data (one row per reporting period)
// and are not an error.
func SelectFirstOccurrence(records []domain.ProjectRecord) []domain.ProjectRecord {
	seen := make(map[string]struct{}, len(records))
	selected := make([]domain.ProjectRecord, 0, len(records))

	for _, rec := range records {
		if _, ok := seen[rec.PID]; ok {
			continue
		}
		seen[rec.PID] = struct{}{}
		selected = append(selected, rec)
	}

	return selected
}
