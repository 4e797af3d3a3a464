// Package email provides outbound email delivery for automation flows.
package email

import (
	"context"
	"errors"
	"strings"

	autoapp "github.com/agencyos/backend/internal/application/automation"
	"github.com/agencyos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure LogSender implements the runner's port
var _ autoapp.EmailSender = (*LogSender)(nil)

// LogSender writes outbound emails to the structured log instead of
// delivering them. Development and test environments use this; a real
// provider adapter slots in behind the same port.
type LogSender struct {
	fromAddress string
	fromName    string
	logger      *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(cfg config.EmailConfig, logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}
}

// Send logs the email instead of delivering it
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("recipient address is required")
	}
	if strings.TrimSpace(subject) == "" {
		return errors.New("subject is required")
	}

	s.logger.Info("Outbound email (log delivery)",
		zap.String("from", s.fromAddress),
		zap.String("from_name", s.fromName),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))

	return nil
}
