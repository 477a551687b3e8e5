// Package ports declares the interfaces the binaries drive adapters through.
package ports

import (
	"context"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
)

// EmailFilter is a mail transport that classifies messages as they pass
// through it. The Postfix content filter and the CLI both implement it.
type EmailFilter interface {
	// ProcessEmail classifies a parsed message and reports the verdict
	// through the transport (headers, reject, or printed summary)
	ProcessEmail(ctx context.Context, email *core.Email) (*core.SpamAnalysisResult, error)

	// Start begins accepting mail without blocking
	Start() error

	// Stop stops accepting mail
	Stop() error
}
