package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/api"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/di"
	"github.com/Manideep667320/Email-Spam-detection/internal/inference"
	"github.com/Manideep667320/Email-Spam-detection/internal/ports"
	"github.com/Manideep667320/Email-Spam-detection/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	container, err := di.BuildContainer(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	model *inference.Service,
	provider *telemetry.Provider,
	emailFilter ports.EmailFilter,
	server *api.Server,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	if emailFilter == nil && server == nil {
		return errors.New("nothing to run: server.filter_type is none and http.enabled is false")
	}

	artifactPath := cfg.GetModel().ArtifactPath
	provider.SetModelLoaded(model.Available())

	if emailFilter != nil {
		if err := emailFilter.Start(); err != nil {
			return fmt.Errorf("failed to start filter: %w", err)
		}
	}
	if server != nil {
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start HTTP API: %w", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		logger.Info("Reloading model artifact", zap.String("path", artifactPath))
		err := model.Reload(artifactPath)
		provider.ObserveReload(err)
		provider.SetModelLoaded(model.Available())
	}
	logger.Info("Shutting down...")

	if emailFilter != nil {
		if err := emailFilter.Stop(); err != nil {
			logger.Error("Failed to stop filter", zap.Error(err))
		}
	}
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error("Failed to stop HTTP API", zap.Error(err))
		}
	}

	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
