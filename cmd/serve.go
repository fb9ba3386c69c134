package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"painpredict/config"
	qhttp "painpredict/http"
	"painpredict/ml"
	"painpredict/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Http.Port = port
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()
		return serve(cfg, log)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (overrides http.port)")
}

func serve(cfg *config.Config, log *zap.Logger) error {
	source, closer, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	// A registry that cannot load both models never serves.
	registry := ml.NewRegistry(source, ml.Horizons(), log)
	if err := registry.Ready(); err != nil {
		return err
	}

	if cfg.Models.Watch && cfg.Models.Source == config.SourceFile {
		w, err := watchArtifacts(cfg, registry, log)
		if err != nil {
			log.Warn("artifact watch disabled", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	predictor, err := ml.NewCachedPredictor(ml.NewEngine(registry, log), cfg.Cache.Size)
	if err != nil {
		return fmt.Errorf("init prediction cache: %w", err)
	}
	tag, err := cfg.Language()
	if err != nil {
		return err
	}
	handler := qhttp.NewHandler(predictor, registry, ml.NewInterpreter(tag), log)

	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := server.Stop(); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}

func watchArtifacts(cfg *config.Config, registry *ml.Registry, log *zap.Logger) (*watcher.Watcher, error) {
	source := cfg.FileSource()
	paths := make([]string, 0, 2)
	for _, h := range ml.Horizons() {
		paths = append(paths, source.Path(h.Model))
	}
	w, err := watcher.New(paths, func(path string) {
		registry.MarkStale(filepath.Base(path) + " changed on disk")
	}, log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
