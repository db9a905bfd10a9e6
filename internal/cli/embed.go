package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"capembed/config"
	"capembed/internal/adapter/cache"
	"capembed/internal/adapter/embedding"
	"capembed/internal/adapter/fs"
	"capembed/internal/adapter/tabular"
	"capembed/internal/adapter/textnorm"
	"capembed/internal/port"
	"capembed/internal/usecase"
)

var (
	embedInputs     []string
	embedOutput     string
	embedNoProgress bool
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed project descriptions into vectors",
	Long: `Run the embedding pipeline: load the configured input tables, keep the
first row per project identifier, normalize each description, and write one
embedding vector per project to the output file. The output is overwritten
on every run.

Examples:
  capembed embed                                  # Use capembed.yaml settings
  capembed embed -i "data/NYC_*.csv" -o out.csv   # Override input and output`,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.Flags().StringSliceVarP(&embedInputs, "input", "i", nil, "input file or glob (repeatable, overrides config)")
	embedCmd.Flags().StringVarP(&embedOutput, "output", "o", "", "output embeddings file (overrides config)")
	embedCmd.Flags().BoolVar(&embedNoProgress, "no-progress", false, "disable the progress bar")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	inputs := cfg.Input.Paths
	if len(embedInputs) > 0 {
		inputs = embedInputs
	}
	resolved := make([]string, len(inputs))
	for i, p := range inputs {
		resolved[i] = resolvePath(p)
	}

	output := cfg.Output.Path
	if embedOutput != "" {
		output = embedOutput
	}
	output = resolvePath(output)

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	var providerCache port.EmbeddingCache
	if cfg.Cache.Enabled {
		boltCache, err := openCache()
		if err != nil {
			return err
		}
		defer boltCache.Close()
		providerCache = boltCache
	}

	loader := tabular.NewLoader(cfg.Input.IDColumn, cfg.Input.DescriptionColumn)
	embedUC := usecase.NewEmbedUseCase(fs.NewResolver(), loader, textnorm.New(), embedder, providerCache, logger)

	fmt.Printf("Embedding with %s (%s)\n", embedder.ModelName(), cfg.Embedding.Provider)

	// Progress bar driven by the per-record callback. The bar is created
	// lazily on the first call, once the total is known.
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time
	var initialized bool

	progressCallback := func(processed, total int, pid string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	var progress usecase.ProgressCallback = progressCallback
	if embedNoProgress {
		progress = nil
	}

	result, err := embedUC.Run(resolved, output, progress)
	if err != nil {
		return fmt.Errorf("embedding run failed: %w", err)
	}

	fmt.Printf("\nEmbedding complete:\n")
	fmt.Printf("  Input files:      %d\n", result.InputFiles)
	fmt.Printf("  Rows loaded:      %d\n", result.RecordsLoaded)
	fmt.Printf("  Unique projects:  %d\n", result.UniqueProjects)
	fmt.Printf("  Missing text:     %d (embedded as %q)\n", result.MissingDescriptions, textnorm.Placeholder)
	if result.EmptyNormalized > 0 {
		fmt.Printf("  Normalized empty: %d (see warnings above)\n", result.EmptyNormalized)
	}
	if providerCache != nil {
		fmt.Printf("  Cache hits:       %d\n", result.CacheHits)
	}
	fmt.Printf("  Dimension:        %d\n", result.Dimension)
	fmt.Printf("  Duration:         %s\n", formatDuration(result.Duration))

	fmt.Printf("\nEmbeddings written to: %s\n", output)
	return nil
}

// newEmbedder builds the provider selected in config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	var embedder port.Embedder
	var err error

	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err = embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.Dimension)
	case "openai-compatible":
		embedder, err = embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "ollama":
		embedder, err = embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return embedder, nil
}

// openCache opens the bolt-backed provider-call cache at its configured
// location, creating the state directory if needed.
func openCache() (*cache.BoltCache, error) {
	override := resolvePath(GetConfig().Cache.Path)
	if override == "" {
		if err := config.EnsureStateDir(GetWorkDir()); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	boltCache, err := cache.NewBoltCache(config.CacheDBPath(GetWorkDir(), override))
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	return boltCache, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
