package filter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/utils"
)

const previewSize = 500

// CliFilter prints an analysis report for a single email
type CliFilter struct {
	service *core.SpamFilterService
	text    *utils.TextProcessor
	logger  *zap.Logger
	verbose bool
	out     io.Writer
}

// NewCliFilter creates a new CLI filter writing to stdout
func NewCliFilter(service *core.SpamFilterService, text *utils.TextProcessor, logger *zap.Logger, verbose bool) *CliFilter {
	return &CliFilter{
		service: service,
		text:    text,
		logger:  logger,
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetOutput redirects the report
func (f *CliFilter) SetOutput(w io.Writer) {
	f.out = w
}

// ProcessEmail processes an email and displays the results
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.SpamAnalysisResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "From: %s\n", email.From)
	fmt.Fprintf(f.out, "To: %s\n", strings.Join(email.To, ", "))
	fmt.Fprintf(f.out, "Subject: %s\n", email.Subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(email.Body))
	if f.verbose {
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", f.text.Preview(email.Body, previewSize))
	}

	fmt.Fprintf(f.out, "\n=== Analysis ===\n")
	startTime := time.Now()
	result, err := f.service.AnalyzeEmail(ctx, email)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		fmt.Fprintf(f.out, "Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Prediction: %s\n", result.Label)
	fmt.Fprintf(f.out, "Is spam: %t\n", result.IsSpam)
	fmt.Fprintf(f.out, "Confidence: %.3f\n", model.Round3(result.Confidence))
	fmt.Fprintf(f.out, "Explanation: %s\n", result.Explanation)
	fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
	if result.ModelVersion != "" {
		fmt.Fprintf(f.out, "Model version: %s\n", result.ModelVersion)
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
