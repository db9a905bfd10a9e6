package textnorm

import "strings"

// Placeholder stands in for a missing description so that every project
// still produces exactly one embedding input.
const Placeholder = "_"

// Normalizer collapses a multi-sentence description into one text unit:
// split on periods, trim each fragment, drop the empty ones, rejoin with
// single spaces. A missing description maps to Placeholder.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize returns exactly one unit for any input. Note the asymmetry kept
// from the source data semantics: a nil description becomes Placeholder,
// while text whose fragments all trim away (e.g. "..." or "") becomes the
// empty string. Callers that care can test for "" via IsEmptyUnit.
func (n *Normalizer) Normalize(description *string) string {
	if description == nil {
		return Placeholder
	}

	fragments := strings.Split(*description, ".")
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}

// IsEmptyUnit reports whether a normalized unit carries no content at all.
// This is distinct from Placeholder, which marks a description that was
// absent in the source.
func IsEmptyUnit(unit string) bool {
	return unit == ""
}
