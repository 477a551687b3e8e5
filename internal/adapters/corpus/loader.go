// Package corpus loads a labeled email corpus laid out as <dir>/ham/*.txt
// and <dir>/spam/*.txt.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
)

// Document is one parsed corpus item
type Document struct {
	Path  string
	Label core.Label
	Text  string
}

// Stats summarizes a load
type Stats struct {
	Ham     int
	Spam    int
	Skipped int
}

// Loader parses corpus files in parallel while preserving file order
type Loader struct {
	parser  *mailparse.Parser
	workers int
	logger  *zap.Logger
}

// NewLoader creates a loader. workers <= 0 means one worker.
func NewLoader(parser *mailparse.Parser, workers int, logger *zap.Logger) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{parser: parser, workers: workers, logger: logger}
}

// Load reads ham then spam, each in sorted file name order. A file that
// cannot be read or parsed is logged and skipped.
func (l *Loader) Load(ctx context.Context, dir string) ([]Document, Stats, error) {
	var stats Stats
	var docs []Document

	for _, class := range []struct {
		folder string
		label  core.Label
	}{
		{"ham", core.Ham},
		{"spam", core.Spam},
	} {
		folder := filepath.Join(dir, class.folder)
		info, err := os.Stat(folder)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to open corpus folder %s: %w", folder, err)
		}
		if !info.IsDir() {
			return nil, stats, fmt.Errorf("corpus path %s is not a directory", folder)
		}

		paths, err := filepath.Glob(filepath.Join(folder, "*.txt"))
		if err != nil {
			return nil, stats, fmt.Errorf("failed to list %s: %w", folder, err)
		}

		parsed, skipped, err := l.parseAll(ctx, paths, class.label)
		if err != nil {
			return nil, stats, err
		}
		stats.Skipped += skipped
		if class.label == core.Spam {
			stats.Spam = len(parsed)
		} else {
			stats.Ham = len(parsed)
		}
		docs = append(docs, parsed...)
	}

	l.logger.Info("Loaded corpus",
		zap.String("dir", dir),
		zap.Int("ham", stats.Ham),
		zap.Int("spam", stats.Spam),
		zap.Int("skipped", stats.Skipped))
	return docs, stats, nil
}

func (l *Loader) parseAll(ctx context.Context, paths []string, label core.Label) ([]Document, int, error) {
	results := make([]*Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := l.parseFile(path)
			if err != nil {
				l.logger.Warn("Skipping corpus item", zap.String("path", path), zap.Error(err))
				return nil
			}
			results[i] = &Document{Path: path, Label: label, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("corpus load interrupted: %w", err)
	}

	docs := make([]Document, 0, len(paths))
	skipped := 0
	for _, d := range results {
		if d == nil {
			skipped++
			continue
		}
		docs = append(docs, *d)
	}
	return docs, skipped, nil
}

func (l *Loader) parseFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrParseFailure, err)
	}
	defer f.Close()

	email, err := l.parser.Parse(f)
	if err != nil {
		return "", err
	}
	return email.RawText(), nil
}
