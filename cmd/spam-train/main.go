package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/di"
	"github.com/Manideep667320/Email-Spam-detection/internal/training"
)

func main() {
	flags, err := di.ParseTrainFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildTrainContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, paths di.TrainPaths, pipeline *training.Pipeline) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Training started",
		zap.String("corpus", paths.CorpusDir),
		zap.String("artifact", paths.ArtifactPath),
		zap.String("report", paths.MetricsPath))

	res, err := pipeline.Run(ctx, paths.CorpusDir, paths.ArtifactPath, paths.MetricsPath)
	if err != nil {
		return err
	}

	cr := res.Report.ClassificationReport
	cm := res.Report.ConfusionMatrix
	fmt.Printf("Trained on %d emails, evaluated on %d\n", res.TrainSize, res.TestSize)
	fmt.Printf("Accuracy: %.4f\n", cr.Accuracy)
	fmt.Printf("%-6s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	fmt.Printf("%-6s %9.4f %9.4f %9.4f %9d\n", "Ham", cr.Ham.Precision, cr.Ham.Recall, cr.Ham.F1, cr.Ham.Support)
	fmt.Printf("%-6s %9.4f %9.4f %9.4f %9d\n", "Spam", cr.Spam.Precision, cr.Spam.Recall, cr.Spam.F1, cr.Spam.Support)
	fmt.Printf("Confusion matrix: [[%d %d] [%d %d]]\n", cm[0][0], cm[0][1], cm[1][0], cm[1][1])
	fmt.Printf("Model version: %s\n", res.Bundle.Version)
	return nil
}
