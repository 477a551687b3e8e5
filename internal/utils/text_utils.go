// Package utils holds small text helpers shared by the mail filters.
package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const maxHeaderValueSize = 200

// TextProcessor prepares text for terminal previews and mail headers
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText cuts text to at most maxSize bytes on a rune boundary and
// appends an ellipsis when anything was removed
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "..."
}

// SanitizeUTF8 drops invalid UTF-8 bytes
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	sanitized := strings.ToValidUTF8(text, "")

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// HeaderValue makes text safe to write as a single unfolded header value:
// valid UTF-8, no line breaks or control characters, bounded length
func (tp *TextProcessor) HeaderValue(text string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, tp.SanitizeUTF8(text))
	clean = strings.Join(strings.Fields(clean), " ")
	return tp.TruncateText(clean, maxHeaderValueSize)
}

// Preview returns the first maxSize bytes of text for display
func (tp *TextProcessor) Preview(text string, maxSize int) string {
	return tp.TruncateText(tp.SanitizeUTF8(strings.TrimSpace(text)), maxSize)
}
