package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"capembed/internal/adapter/cache"
	"capembed/internal/adapter/embedding"
	"capembed/internal/adapter/fs"
	"capembed/internal/adapter/tabular"
	"capembed/internal/adapter/textnorm"
	"capembed/internal/port"
	"capembed/internal/usecase"
)

func main() {
	rows := flag.Int("n", 10000, "Number of input rows to synthesize")
	dup := flag.Int("dup", 4, "Rows per project (duplication factor)")
	dim := flag.Int("dim", 384, "Vector dimension")
	useCache := flag.Bool("cache", false, "Run twice with an in-memory provider cache")
	flag.Parse()

	if *rows <= 0 || *dup <= 0 || *dim <= 0 {
		fmt.Fprintln(os.Stderr, "all of -n, -dup and -dim must be positive")
		os.Exit(1)
	}

	dir, err := os.MkdirTemp("", "capembed-bench-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "projects.csv")
	projects, err := writeInput(inputPath, *rows, *dup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error synthesizing input: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("EMBEDDING PIPELINE BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Rows:      %d\n", *rows)
	fmt.Printf("Projects:  %d\n", projects)
	fmt.Printf("Dimension: %d\n", *dim)
	if *useCache {
		fmt.Println("Cache:     in-memory (cold run, then warm run)")
	} else {
		fmt.Println("Cache:     disabled")
	}

	var providerCache port.EmbeddingCache
	if *useCache {
		providerCache = cache.NewMemoryCache()
	}

	embedUC := usecase.NewEmbedUseCase(
		fs.NewResolver(),
		tabular.NewLoader("PID", "Description"),
		textnorm.New(),
		embedding.NewMockEmbedder(*dim),
		providerCache,
		zerolog.Nop(),
	)

	runs := 1
	if *useCache {
		runs = 2
	}
	for i := 0; i < runs; i++ {
		label := "Run"
		if *useCache {
			if i == 0 {
				label = "Run 1 (cold)"
			} else {
				label = "Run 2 (warm)"
			}
		}

		outputPath := filepath.Join(dir, fmt.Sprintf("embeddings-%d.csv", i))
		result, err := embedUC.Run([]string{inputPath}, outputPath, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println()
		fmt.Println(label)
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  Duration:    %v\n", result.Duration)
		fmt.Printf("  Rows/sec:    %.0f\n", float64(result.RecordsLoaded)/result.Duration.Seconds())
		fmt.Printf("  Vectors/sec: %.0f\n", float64(result.UniqueProjects)/result.Duration.Seconds())
		fmt.Printf("  Cache hits:  %d\n", result.CacheHits)
	}
}

// writeInput synthesizes a project table with rows/dup distinct projects,
// each repeated dup times under different snapshot-style descriptions, and
// returns the distinct project count.
func writeInput(path string, rows, dup int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"PID", "Description"}); err != nil {
		return 0, err
	}

	projects := 0
	for i := 0; i < rows; i++ {
		pid := i / dup
		if i%dup == 0 {
			projects++
		}
		desc := fmt.Sprintf("Rehabilitation of structure %d.  Snapshot %d of the capital plan. Scope unchanged.", pid, i%dup)
		if err := w.Write([]string{fmt.Sprintf("%d", pid), desc}); err != nil {
			return 0, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}
	return projects, nil
}
