package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"capembed/internal/adapter/vectorcsv"
	"capembed/internal/usecase"
)

var (
	similarPID  string
	similarTopK int
)

var similarCmd = &cobra.Command{
	Use:   "similar [file]",
	Short: "Rank projects by similarity to one project",
	Long: `Load an embeddings file and rank every other project by cosine similarity
against the given project's vector.

Examples:
  capembed similar --pid 450
  capembed similar --pid 450 -k 5 embeddings.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().StringVar(&similarPID, "pid", "", "reference project identifier (required)")
	similarCmd.Flags().IntVarP(&similarTopK, "top-k", "k", 10, "number of neighbors to show")
	similarCmd.MarkFlagRequired("pid")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	path := resolvePath(GetConfig().Output.Path)
	if len(args) > 0 {
		path = resolvePath(args[0])
	}

	similarUC := usecase.NewSimilarUseCase(vectorcsv.NewStore(path))
	neighbors, err := similarUC.Similar(similarPID, similarTopK)
	if err != nil {
		return err
	}

	if len(neighbors) == 0 {
		fmt.Println("No other projects to compare against.")
		return nil
	}

	fmt.Printf("Projects most similar to %s:\n\n", similarPID)
	for i, n := range neighbors {
		fmt.Printf("%3d. %-12s %.4f\n", i+1, n.PID, n.Score)
	}
	return nil
}
