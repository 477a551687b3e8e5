package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/factory"
	"github.com/Manideep667320/Email-Spam-detection/internal/logging"
	"github.com/Manideep667320/Email-Spam-detection/internal/ports"
)

// CLIFlags contains all command line flags for the detector
type CLIFlags struct {
	ArtifactPath  string
	StopwordsPath string
	Whitelist     string

	InputFile  string
	JSONOutput bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses the detector's command line
func ParseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("spam-detector", flag.ContinueOnError)

	fs.StringVar(&flags.ArtifactPath, "model", "", "Path to the trained model artifact (overrides config)")
	fs.StringVar(&flags.StopwordsPath, "stopwords", "", "Stopword file, one word per line (overrides config)")
	fs.StringVar(&flags.Whitelist, "whitelist", "", "Comma-separated list of whitelisted domains")

	fs.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	fs.BoolVar(&flags.JSONOutput, "json", false, "Print the result as JSON instead of a report")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildCLIContainer creates the container for the detector. The cache and
// metrics are disabled.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration, flags win over the file
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadConfig(flags.ConfigFile, logger)
		if err != nil {
			return nil, err
		}
		applyCLIFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(func() core.MetricsRecorder { return nil }); err != nil {
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

	return container, nil
}

func loadConfig(path string, logger *zap.Logger) (*config.Config, error) {
	cfg, err := config.NewFromFile(path)
	if err != nil {
		return nil, err
	}
	if used := cfg.GetViper().ConfigFileUsed(); used != "" {
		logger.Info("Loaded configuration from file", zap.String("file", used))
	}
	return cfg, nil
}

func applyCLIFlags(cfg *config.Config, flags *CLIFlags) {
	cfg.Set("server.filter_type", "cli")
	cfg.Set("cli.verbose", flags.Verbose)
	cfg.Set("cache.enabled", false)

	if flags.ArtifactPath != "" {
		cfg.Set("model.artifact_path", flags.ArtifactPath)
	}
	if flags.StopwordsPath != "" {
		cfg.Set("text.stopwords_path", flags.StopwordsPath)
	}
	if flags.Whitelist != "" {
		domains := strings.Split(flags.Whitelist, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		cfg.Set("spam.whitelisted_domains", domains)
	}
}
