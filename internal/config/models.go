package config

import (
	"fmt"
	"time"

	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
	"github.com/Manideep667320/Email-Spam-detection/internal/vectorizer"
)

// ModelConfig locates the artifacts written by training
type ModelConfig struct {
	ArtifactPath  string
	MetricsPath   string
	StopwordsPath string
}

// TrainingConfig represents the training run settings
type TrainingConfig struct {
	CorpusDir string
	Workers   int
	Options   training.Options
}

// ServerConfig represents the SMTP filter settings
type ServerConfig struct {
	FilterType       string
	ListenAddress    string
	BlockSpam        bool
	SpamHeader       string
	ConfidenceHeader string
	ReasonHeader     string
	ModifySubject    bool
	SubjectPrefix    string
	Postfix          PostfixConfig
}

// PostfixConfig is the reinjection target
type PostfixConfig struct {
	Enabled bool
	Address string
	Port    int
}

// HTTPConfig represents the prediction API settings
type HTTPConfig struct {
	Enabled       bool
	ListenAddress string
	CORSOrigins   []string
}

// CacheConfig represents the prediction cache settings
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// GetModel returns the model artifact configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		ArtifactPath:  c.GetString("model.artifact_path"),
		MetricsPath:   c.GetString("model.metrics_path"),
		StopwordsPath: c.GetString("text.stopwords_path"),
	}
}

// GetTraining returns the training configuration
func (c *Config) GetTraining() TrainingConfig {
	return TrainingConfig{
		CorpusDir: c.GetString("training.corpus_dir"),
		Workers:   c.GetInt("training.workers"),
		Options: training.Options{
			TestSize:    c.GetFloat64("training.test_size"),
			Seed:        uint64(c.GetInt("training.seed")),
			TopFeatures: c.GetInt("training.top_features"),
			Vectorizer: vectorizer.Options{
				MinN:        1,
				MaxN:        2,
				MinDF:       c.GetInt("training.min_df"),
				MaxFeatures: c.GetInt("training.max_features"),
			},
			Model: model.Options{
				MaxIter:        c.GetInt("training.max_iter"),
				Eta0:           c.GetFloat64("training.eta0"),
				Tol:            c.GetFloat64("training.tol"),
				NIterNoChange:  c.GetInt("training.n_iter_no_change"),
				InterceptDecay: c.GetFloat64("training.intercept_decay"),
				Shuffle:        true,
				Seed:           uint64(c.GetInt("training.seed")),
			},
		},
	}
}

// GetServer returns the SMTP filter configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:       c.GetString("server.filter_type"),
		ListenAddress:    c.GetString("server.listen_address"),
		BlockSpam:        c.GetBool("server.block_spam"),
		SpamHeader:       c.GetString("server.headers.spam"),
		ConfidenceHeader: c.GetString("server.headers.confidence"),
		ReasonHeader:     c.GetString("server.headers.reason"),
		ModifySubject:    c.GetBool("server.modify_subject"),
		SubjectPrefix:    c.GetString("server.subject_prefix"),
		Postfix: PostfixConfig{
			Enabled: c.GetBool("server.postfix.enabled"),
			Address: c.GetString("server.postfix.address"),
			Port:    c.GetInt("server.postfix.port"),
		},
	}
}

// GetHTTP returns the HTTP API configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		Enabled:       c.GetBool("http.enabled"),
		ListenAddress: c.GetString("http.listen_address"),
		CORSOrigins:   c.GetStringSlice("http.cors_origins"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	freq, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	if ttl <= 0 {
		return CacheConfig{}, fmt.Errorf("cache.ttl must be positive, got %s", ttl)
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: freq,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetWhitelistedDomains returns the trusted sender domains
func (c *Config) GetWhitelistedDomains() []string {
	return c.GetStringSlice("spam.whitelisted_domains")
}
