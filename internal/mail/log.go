package mail

import (
	"context"

	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.Mailer = (*LogSender)(nil)

// LogSender writes mail to the log instead of delivering it. Used when no
// SMTP host is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, m model.Mail) error {
	s.log.Info("mail not delivered, smtp disabled", "to", m.To, "subject", m.Subject, "body", m.Body)
	return nil
}
