package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Manideep667320/Email-Spam-detection/internal/adapters/mailparse"
	"github.com/Manideep667320/Email-Spam-detection/internal/config"
	"github.com/Manideep667320/Email-Spam-detection/internal/core"
	"github.com/Manideep667320/Email-Spam-detection/internal/model"
	"github.com/Manideep667320/Email-Spam-detection/internal/utils"
)

const (
	analysisTimeout = 10 * time.Second
	errorHeader     = "X-Spam-Analysis-Error"
	idHeader        = "X-Spam-Id"
)

// PostfixFilter implements a Postfix content filter. Messages arrive over
// SMTP, get tagged with the verdict and are reinjected into Postfix.
type PostfixFilter struct {
	service       *core.SpamFilterService
	parser        *mailparse.Parser
	text          *utils.TextProcessor
	logger        *zap.Logger
	cfg           config.ServerConfig
	server        *smtp.Server
	deliver       func(sender string, recipients []string, data []byte) error
	subjectPrefix string
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	service *core.SpamFilterService,
	parser *mailparse.Parser,
	text *utils.TextProcessor,
	logger *zap.Logger,
	cfg config.ServerConfig,
) *PostfixFilter {
	prefix := cfg.SubjectPrefix
	if prefix == "" && cfg.ModifySubject {
		prefix = "[**SPAM**] "
	}

	f := &PostfixFilter{
		service:       service,
		parser:        parser,
		text:          text,
		logger:        logger,
		cfg:           cfg,
		subjectPrefix: prefix,
	}
	f.deliver = f.sendToPostfix
	return f
}

// Start starts the SMTP listener in the background
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50

	f.logger.Info("Postfix filter starting",
		zap.String("address", f.cfg.ListenAddress),
		zap.Bool("block_spam", f.cfg.BlockSpam),
		zap.Bool("reinject", f.cfg.Postfix.Enabled))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && err != smtp.ErrServerClosed {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail analyzes an already parsed email
func (f *PostfixFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.SpamAnalysisResult, error) {
	return f.service.AnalyzeEmail(ctx, email)
}

// filterMessage analyzes raw and returns the message to reinject. A spam
// verdict with block_spam set returns a 550 SMTP error instead. Analysis
// failures never block mail: the message passes through tagged with the
// error.
func (f *PostfixFilter) filterMessage(ctx context.Context, sender string, recipients []string, raw []byte) ([]byte, error) {
	var result *core.SpamAnalysisResult
	email, analysisErr := f.parser.ParseBytes(raw)
	if analysisErr == nil {
		if sender != "" {
			email.From = sender
		}
		email.To = recipients
		result, analysisErr = f.service.AnalyzeEmail(ctx, email)
	} else {
		email = &core.Email{From: sender, To: recipients}
	}

	if analysisErr != nil {
		f.logger.Error("Failed to analyze email",
			zap.Error(analysisErr),
			zap.String("sender", sender),
			zap.String("sender_domain", domainOf(sender)))
		result = &core.SpamAnalysisResult{
			Label:        core.Ham,
			Explanation:  "Analysis unavailable",
			ModelUsed:    "error",
			AnalyzedAt:   time.Now(),
			ProcessingID: uuid.New().String(),
		}
	}

	if result.IsSpam && f.cfg.BlockSpam {
		f.logger.Info("Rejecting spam email",
			zap.String("from", email.From),
			zap.String("sender_domain", domainOf(email.From)),
			zap.Float64("confidence", result.Confidence),
			zap.String("processing_id", result.ProcessingID),
			zap.String("model", result.ModelUsed))
		return nil, &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as spam (confidence: %.3f)", model.Round3(result.Confidence)),
		}
	}

	var out bytes.Buffer
	status := "No"
	if result.IsSpam {
		status = "Yes"
	}
	fmt.Fprintf(&out, "%s: %s\r\n", f.cfg.SpamHeader, status)
	if analysisErr == nil {
		fmt.Fprintf(&out, "%s: %.3f\r\n", f.cfg.ConfidenceHeader, model.Round3(result.Confidence))
	}
	fmt.Fprintf(&out, "%s: %s\r\n", f.cfg.ReasonHeader, f.text.HeaderValue(result.Explanation))
	fmt.Fprintf(&out, "%s: %s\r\n", idHeader, result.ProcessingID)
	if analysisErr != nil {
		fmt.Fprintf(&out, "%s: %s\r\n", errorHeader, f.text.HeaderValue(analysisErr.Error()))
	}

	if result.IsSpam && f.cfg.ModifySubject && !strings.HasPrefix(email.Subject, f.subjectPrefix) {
		out.Write(replaceSubject(raw, mime.QEncoding.Encode("utf-8", f.subjectPrefix+email.Subject)))
	} else {
		out.Write(raw)
	}

	f.logger.Info("Processed email",
		zap.String("from", email.From),
		zap.String("sender_domain", domainOf(email.From)),
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("confidence", result.Confidence),
		zap.String("processing_id", result.ProcessingID),
		zap.String("model", result.ModelUsed))

	return out.Bytes(), nil
}

// replaceSubject swaps the Subject header (with its continuation lines)
// for subject, keeping every other header in its original order
func replaceSubject(raw []byte, subject string) []byte {
	end := headerEnd(raw)
	var out bytes.Buffer
	replaced, skipping := false, false

	for _, line := range bytes.SplitAfter(raw[:end], []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if skipping && (line[0] == ' ' || line[0] == '\t') {
			continue
		}
		skipping = false
		if len(line) >= 8 && strings.EqualFold(string(line[:8]), "subject:") {
			if !replaced {
				fmt.Fprintf(&out, "Subject: %s\r\n", subject)
				replaced = true
			}
			skipping = true
			continue
		}
		out.Write(line)
	}
	if !replaced {
		fmt.Fprintf(&out, "Subject: %s\r\n", subject)
	}
	out.Write(raw[end:])
	return out.Bytes()
}

// headerEnd returns the offset of the blank line that ends the header
// block, or len(raw) when there is none
func headerEnd(raw []byte) int {
	crlf := bytes.Index(raw, []byte("\r\n\r\n"))
	lf := bytes.Index(raw, []byte("\n\n"))
	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return crlf + 2
	case lf >= 0:
		return lf + 1
	default:
		return len(raw)
	}
}

func domainOf(addr string) string {
	if at := strings.LastIndexByte(addr, '@'); at >= 0 && at < len(addr)-1 {
		return addr[at+1:]
	}
	return "unknown"
}

// sendToPostfix reinjects the processed email into Postfix using go-smtp
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.cfg.Postfix.Address, fmt.Sprint(f.cfg.Postfix.Port))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message is already accepted
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data filters the message and hands it back to Postfix
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	filtered, err := s.filter.filterMessage(ctx, s.sender, s.recipients, raw)
	if err != nil {
		return err
	}

	if !s.filter.cfg.Postfix.Enabled {
		s.filter.logger.Warn("Postfix forwarding disabled, message dropped after tagging")
		return nil
	}
	if err := s.filter.deliver(s.sender, s.recipients, filtered); err != nil {
		s.filter.logger.Error("Failed to send email back to Postfix",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}
	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
