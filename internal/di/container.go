// Package di wires the binaries' object graphs with dig.
package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/api"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/factory"
	"github.com/Manideep667320/Email-Spam-detection/internal/inference"
	"github.com/Manideep667320/Email-Spam-detection/internal/logging"
	"github.com/Manideep667320/Email-Spam-detection/internal/ports"
	"github.com/Manideep667320/Email-Spam-detection/internal/telemetry"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/utils"
	"github.com/Manideep667320/Email-Spam-detection/internal/whitelist"
)

// BuildContainer creates the container for the filter daemon. configFile
// may be empty to search the default locations.
func BuildContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(configFile)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}
	if err := container.Provide(telemetry.NewProvider); err != nil {
		return nil, err
	}
	if err := container.Provide(func(p *telemetry.Provider) core.MetricsRecorder { return p }); err != nil {
		return nil, err
	}

	if err := provideModel(container); err != nil {
		return nil, err
	}
	if err := provideService(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	// Register HTTP API, nil when disabled
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.SpamFilterService,
		provider *telemetry.Provider,
		logger *zap.Logger,
	) *api.Server {
		httpCfg := cfg.GetHTTP()
		if !httpCfg.Enabled {
			return nil
		}
		modelCfg := cfg.GetModel()
		handler := api.NewHandler(service, modelCfg.ArtifactPath, modelCfg.MetricsPath, logger)
		router := api.NewRouter(handler, provider.Handler(), httpCfg.CORSOrigins, logger)
		return api.NewServer(httpCfg.ListenAddress, router, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideModel registers the normalizer, the inference service and the
// classifier port it implements
func provideModel(container *dig.Container) error {
	if err := container.Provide(factory.NewNormalizerFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.NormalizerFactory) (*textproc.Normalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ModelFactory, n *textproc.Normalizer) *inference.Service {
		return f.CreateInferenceService(n)
	}); err != nil {
		return err
	}
	return container.Provide(func(s *inference.Service) core.Classifier { return s })
}

// provideService registers the spam filter service and everything the
// filters need around it. core.MetricsRecorder must already be provided.
func provideService(container *dig.Container) error {
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(mailparse.NewParser); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register whitelist checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetWhitelistedDomains(), logger)
	}); err != nil {
		return err
	}

	// Register spam filter service
	return container.Provide(func(
		cfg *config.Config,
		classifier core.Classifier,
		repo core.CacheRepository,
		checker *whitelist.Checker,
		metrics core.MetricsRecorder,
		logger *zap.Logger,
	) (*core.SpamFilterService, error) {
		cacheCfg, err := cfg.GetCache()
		if err != nil {
			return nil, err
		}
		return core.NewSpamFilterService(classifier, repo, checker, metrics, logger, cacheCfg.Enabled, cacheCfg.TTL), nil
	})
}
