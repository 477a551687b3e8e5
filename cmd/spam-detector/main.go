package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/di"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/ports"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type jsonResult struct {
	Prediction   string  `json:"prediction"`
	Confidence   float64 `json:"confidence"`
	Degraded     bool    `json:"degraded,omitempty"`
	ModelUsed    string  `json:"model_used"`
	ModelVersion string  `json:"model_version,omitempty"`
	ProcessingID string  `json:"processing_id"`
}

func run(
	logger *zap.Logger,
	flags *di.CLIFlags,
	parser *mailparse.Parser,
	emailFilter ports.EmailFilter,
	service *core.SpamFilterService,
) error {
	defer logger.Sync()

	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	email, err := parser.Parse(bufio.NewReader(emailReader))
	if err != nil {
		return fmt.Errorf("failed to parse email: %w", err)
	}

	ctx := context.Background()
	if !flags.JSONOutput {
		_, err := emailFilter.ProcessEmail(ctx, email)
		return explain(err)
	}

	result, err := service.AnalyzeEmail(ctx, email)
	if err != nil {
		return explain(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		Prediction:   result.Label.String(),
		Confidence:   model.Round3(result.Confidence),
		Degraded:     result.Degraded,
		ModelUsed:    result.ModelUsed,
		ModelVersion: result.ModelVersion,
		ProcessingID: result.ProcessingID,
	})
}

func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrModelUnavailable):
		return fmt.Errorf("%w: run spam-train first or pass -model", err)
	case errors.Is(err, core.ErrInvalidInput):
		return fmt.Errorf("%w: the email has no subject or body text", err)
	default:
		return err
	}
}
