package usecase

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"capembed/internal/adapter/fs"
	"capembed/internal/adapter/tabular"
	"capembed/internal/adapter/textnorm"
	"capembed/internal/adapter/vectorcsv"
	"capembed/internal/domain"
	"capembed/internal/port"
)

// ProgressCallback reports per-record progress during the embedding loop.
// It is an observability hook only; nil disables reporting and correctness
// never depends on it.
type ProgressCallback func(processed, total int, pid string)

// EmbedUseCase runs the embedding pipeline: resolve the input paths, load
// every row, collapse duplicate identifiers, normalize each description into
// one text unit, obtain one vector per project from the provider, and stream
// the results to the output file.
type EmbedUseCase struct {
	resolver   *fs.Resolver
	loader     *tabular.Loader
	normalizer *textnorm.Normalizer
	embedder   port.Embedder
	cache      port.EmbeddingCache // nil disables provider-call caching
	log        zerolog.Logger
}

// NewEmbedUseCase creates a new embed use case.
func NewEmbedUseCase(
	resolver *fs.Resolver,
	loader *tabular.Loader,
	normalizer *textnorm.Normalizer,
	embedder port.Embedder,
	cache port.EmbeddingCache,
	log zerolog.Logger,
) *EmbedUseCase {
	return &EmbedUseCase{
		resolver:   resolver,
		loader:     loader,
		normalizer: normalizer,
		embedder:   embedder,
		cache:      cache,
		log:        log,
	}
}

// EmbedResult contains the results of a pipeline run.
type EmbedResult struct {
	InputFiles          int
	RecordsLoaded       int
	UniqueProjects      int
	MissingDescriptions int
	EmptyNormalized     int
	CacheHits           int
	Dimension           int
	Duration            time.Duration
}

// Run executes the pipeline against the given input patterns, writing one
// row per unique project to outputPath. Records are processed strictly in
// order, one provider call at a time; the first error aborts the run. A
// partially written output file may be left behind on failure.
func (u *EmbedUseCase) Run(patterns []string, outputPath string, progress ProgressCallback) (*EmbedResult, error) {
	start := time.Now()
	result := &EmbedResult{}

	files, err := u.resolver.Resolve(patterns)
	if err != nil {
		return nil, err
	}
	result.InputFiles = len(files)

	var records []domain.ProjectRecord
	for _, file := range files {
		rows, err := u.loader.Load(file)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}
	result.RecordsLoaded = len(records)

	selected := SelectFirstOccurrence(records)
	result.UniqueProjects = len(selected)

	u.log.Info().
		Int("rows", len(records)).
		Int("unique", len(selected)).
		Str("model", u.embedder.ModelName()).
		Msg("starting embedding run")

	// Open the sink before the first provider call so an unwritable target
	// fails the run without spending any embedding time.
	store := vectorcsv.NewStore(outputPath)
	w, err := store.Create()
	if err != nil {
		return nil, err
	}

	model := u.embedder.ModelName()
	for i, rec := range selected {
		unit := u.normalizer.Normalize(rec.Description)
		if rec.Description == nil {
			result.MissingDescriptions++
		} else if textnorm.IsEmptyUnit(unit) {
			// The empty unit is not the missing-description placeholder;
			// surface each occurrence instead of quietly merging the two.
			result.EmptyNormalized++
			u.log.Warn().Str("pid", rec.PID).Msg("description normalized to empty text")
		}

		vector, hit, err := u.cachedVector(model, unit)
		if err != nil {
			w.Close()
			return nil, err
		}
		if hit {
			result.CacheHits++
		} else {
			vector, err = u.embedOne(unit)
			if err != nil {
				w.Close()
				return nil, err
			}
			if u.cache != nil {
				if err := u.cache.Put(model, unit, vector); err != nil {
					w.Close()
					return nil, fmt.Errorf("failed to cache vector for %s: %w", rec.PID, err)
				}
			}
		}

		if result.Dimension == 0 {
			result.Dimension = len(vector)
		}

		if err := w.Write(domain.EmbeddingRecord{PID: rec.PID, Vector: vector}); err != nil {
			w.Close()
			return nil, err
		}

		if progress != nil {
			progress(i+1, len(selected), rec.PID)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// embedOne performs a single provider call and enforces the one-in, one-out
// contract. Provider errors pass through unwrapped so the underlying message
// reaches the operator verbatim.
func (u *EmbedUseCase) embedOne(text string) ([]float32, error) {
	vectors, err := u.embedder.Embed([]string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding provider returned %d vectors for one input", len(vectors))
	}
	return vectors[0], nil
}

func (u *EmbedUseCase) cachedVector(model, text string) ([]float32, bool, error) {
	if u.cache == nil {
		return nil, false, nil
	}
	vector, hit, err := u.cache.Get(model, text)
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}
	return vector, hit, nil
}
