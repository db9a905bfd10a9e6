package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capembed/internal/adapter/vectorcsv"
	"capembed/internal/usecase"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Re-parse an embeddings file and report findings",
	Long: `Parse every row of an embeddings file back into vectors and report what a
downstream consumer would care about: row count, dimension uniformity,
duplicate identifiers, and non-finite components. A row that fails to parse
is a hard error.

With no argument, the configured output path is verified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := resolvePath(GetConfig().Output.Path)
	if len(args) > 0 {
		path = resolvePath(args[0])
	}

	verifyUC := usecase.NewVerifyUseCase(vectorcsv.NewStore(path))
	result, err := verifyUC.Verify()
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("Verified %s:\n", path)
	fmt.Printf("  Rows:      %d\n", result.Rows)
	fmt.Printf("  Dimension: %d\n", result.Dimension)

	if result.Clean() {
		fmt.Println("  No findings.")
		return nil
	}

	fmt.Println("\nFindings:")
	if result.RaggedRows > 0 {
		fmt.Printf("  - %d row(s) differ from the first row's dimension\n", result.RaggedRows)
	}
	if len(result.DuplicatePIDs) > 0 {
		fmt.Printf("  - duplicate identifiers: %s\n", strings.Join(result.DuplicatePIDs, ", "))
	}
	if result.NonFinite > 0 {
		fmt.Printf("  - %d row(s) contain NaN or Inf components\n", result.NonFinite)
	}
	return nil
}
