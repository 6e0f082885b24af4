// Command warviz shows WW2 casualties as a pie chart of countries that turns
// into a per-country bar chart when a slice is pressed and held.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/warviz/internal/config"
)

var (
	// Global flags
	cfgPath    string
	dataPath   string
	scriptPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "warviz",
	Short: "Interactive WW2 casualties chart",
	Long: `warviz draws a pie chart of WW2 casualties by country.

Hover a slice to see its totals. Press and hold a slice to open the
country's bar chart; press and hold "Back to Pie Chart" to return.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dataPath != "" {
			cfg.Data.File = dataPath
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGame(cmd.Context())
	},
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = lc.Format
	if lc.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "overview dataset, overrides data.file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "replay an input script")
	rootCmd.Flags().BoolVar(&exitAfterScript, "exit-after-script", false, "quit once the input script has finished")

	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
