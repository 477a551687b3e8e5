package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/filter"
	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/ports"
	"github.com/Manideep667320/Email-Spam-detection/internal/utils"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	spamService *core.SpamFilterService
	parser      *mailparse.Parser
	text        *utils.TextProcessor
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	spamService *core.SpamFilterService,
	parser *mailparse.Parser,
	text *utils.TextProcessor,
) *FilterFactory {
	return &FilterFactory{
		cfg:         cfg,
		logger:      logger,
		spamService: spamService,
		parser:      parser,
		text:        text,
	}
}

// CreateEmailFilter creates an email filter based on the configuration.
// filter_type "none" returns a nil filter and no error.
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.FilterType {
	case "postfix":
		return filter.NewPostfixFilter(f.spamService, f.parser, f.text, f.logger, serverCfg), nil
	case "cli":
		return filter.NewCliFilter(f.spamService, f.text, f.logger, f.cfg.GetBool("cli.verbose")), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", serverCfg.FilterType)
	}
}
