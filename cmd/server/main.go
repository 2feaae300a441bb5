package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/api"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/config"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/logger"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/metrics"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/predict"
	"github.com/Lavishgangwani/iNeuron-RestaurantRatingPredictions/pkg/store"
)

const defaultConfig = "config.yaml"

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: ./config.yaml when present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	if configPath == "" && store.Exists(defaultConfig) {
		configPath = defaultConfig
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	m := metrics.New("rating")
	svc := predict.New(cfg.Paths.Preprocessor, cfg.Paths.Model, log, m)
	if err := svc.Ready(); err != nil {
		log.Warnw("Artifacts not loaded yet; run the training binary first", "error", err)
	}

	srv := api.NewServer(cfg.Server, svc, log, m)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Infow("Server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Infow("Server stopped")
	return nil
}
