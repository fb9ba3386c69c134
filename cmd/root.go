package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"painpredict/config"
	"painpredict/db"
	"painpredict/logger"
	"painpredict/ml"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "painpredict",
	Short:         "Postoperative pain probability at 24 and 72 hours",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(artifactsCmd)
}

// loadConfig reads --config. Without the flag, a missing config.yaml is looked
// up in the parent directory and then replaced by defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if cmd.Flags().Changed("config") {
		return config.Load(path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		parent := filepath.Join("..", path)
		if _, err := os.Stat(parent); err == nil {
			path = parent
		} else {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// openSource returns the artifact source selected by config. The closer
// releases the sqlite handle, if any.
func openSource(cfg *config.Config) (ml.ArtifactSource, io.Closer, error) {
	switch cfg.Models.Source {
	case config.SourceSQLite:
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open artifact store: %w", err)
		}
		return store, store, nil
	default:
		return cfg.FileSource(), io.NopCloser(nil), nil
	}
}
