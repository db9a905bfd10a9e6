package vectorcsv

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeVector renders a vector as comma-joined decimal components with no
// enclosing brackets. Components use the shortest decimal form that parses
// back to the same float32, so DecodeVector(EncodeVector(v)) reproduces v
// exactly, not just within tolerance.
func EncodeVector(v []float32) string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatFloat(float64(c), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// DecodeVector parses the comma-joined form back into a vector. An empty
// field decodes to an empty vector. Any component that does not parse as a
// number fails the whole vector; there is no partial recovery.
func DecodeVector(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	tokens := strings.Split(s, ",")
	vec := make([]float32, len(tokens))
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil {
			return nil, fmt.Errorf("embedding component %d: %w", i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}
