package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/factory"
	"github.com/Manideep667320/Email-Spam-detection/internal/logging"
	"github.com/Manideep667320/Email-Spam-detection/internal/textproc"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
)

// TrainFlags contains the trainer's command line flags
type TrainFlags struct {
	CorpusDir     string
	ArtifactPath  string
	MetricsPath   string
	StopwordsPath string
	Workers       int

	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseTrainFlags parses the trainer's command line
func ParseTrainFlags(args []string) (*TrainFlags, error) {
	flags := &TrainFlags{}
	fs := flag.NewFlagSet("spam-train", flag.ContinueOnError)

	fs.StringVar(&flags.CorpusDir, "corpus", "", "Corpus directory with ham/ and spam/ folders (overrides config)")
	fs.StringVar(&flags.ArtifactPath, "model", "", "Where to write the model artifact (overrides config)")
	fs.StringVar(&flags.MetricsPath, "metrics", "", "Where to write the metrics report (overrides config)")
	fs.StringVar(&flags.StopwordsPath, "stopwords", "", "Stopword file, one word per line (overrides config)")
	fs.IntVar(&flags.Workers, "workers", 0, "Parallel corpus parsers (overrides config)")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// TrainPaths are the resolved input and output locations of a run
type TrainPaths struct {
	CorpusDir    string
	ArtifactPath string
	MetricsPath  string
}

// BuildTrainContainer creates the container for the trainer
func BuildTrainContainer(flags *TrainFlags) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(func(logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadConfig(flags.ConfigFile, logger)
		if err != nil {
			return nil, err
		}
		applyTrainFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(func(cfg *config.Config) TrainPaths {
		return TrainPaths{
			CorpusDir:    cfg.GetTraining().CorpusDir,
			ArtifactPath: cfg.GetModel().ArtifactPath,
			MetricsPath:  cfg.GetModel().MetricsPath,
		}
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(factory.NewNormalizerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(mailparse.NewParser); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.NormalizerFactory) (*textproc.Normalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return nil, err
	}

	// Register training pipeline
	if err := container.Provide(func(f *factory.ModelFactory, p *mailparse.Parser, n *textproc.Normalizer) *training.Pipeline {
		return f.CreatePipeline(p, n)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

func applyTrainFlags(cfg *config.Config, flags *TrainFlags) {
	if flags.CorpusDir != "" {
		cfg.Set("training.corpus_dir", flags.CorpusDir)
	}
	if flags.ArtifactPath != "" {
		cfg.Set("model.artifact_path", flags.ArtifactPath)
	}
	if flags.MetricsPath != "" {
		cfg.Set("model.metrics_path", flags.MetricsPath)
	}
	if flags.StopwordsPath != "" {
		cfg.Set("text.stopwords_path", flags.StopwordsPath)
	}
	if flags.Workers > 0 {
		cfg.Set("training.workers", flags.Workers)
	}
}
