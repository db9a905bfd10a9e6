package port

// EmbeddingCache memoizes provider calls, keyed by model and normalized
// text. A miss is (nil, false, nil); errors are reserved for storage
// failures.
type EmbeddingCache interface {
	Get(model, text string) ([]float32, bool, error)

	Put(model, text string, vector []float32) error
}
