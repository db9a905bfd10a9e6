package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"capembed/config"
)

var (
	cfgFile string
	cfg     *config.Config
	workDir string
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capembed",
	Short: "Generate text embeddings for capital-project descriptions",
	Long: `capembed reads tabular capital-project exports, keeps the first row per
project identifier, and turns each project's free-text description into a
fixed-length embedding vector using a pretrained model endpoint. Vectors are
written to a flat CSV file for downstream analysis.

Example usage:
  capembed init                              # Write a default capembed.yaml
  capembed embed                             # Run the pipeline per config
  capembed embed -i projects.csv -o out.csv  # Override input and output
  capembed verify out.csv                    # Re-parse the written file
  capembed similar --pid 450 out.csv         # Rank related projects`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if workDir == "" {
			workDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(workDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./capembed.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", "", "working directory (default is current directory)")
	rootCmd.SilenceUsage = true
}

// newLogger builds the process logger. Log output goes to stderr so that
// summaries and tables on stdout stay clean.
func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func GetConfig() *config.Config {
	return cfg
}

func GetWorkDir() string {
	return workDir
}

// resolvePath anchors a relative config path at the working directory so
// that --dir affects inputs, output, and cache consistently.
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
