// Package mailer provides authgate.Mailer implementations: a Postmark-backed
// sender for production and a log-only sender for development.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrz1836/postmark"
)

// Config is sourced from the environment by the daemon.
type Config struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail  string `env:"SENDER_EMAIL"`
}

// Postmark sends transactional mail through the Postmark API.
type Postmark struct {
	client *postmark.Client
	from   string
}

func NewPostmark(cfg Config) (*Postmark, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("mailer: POSTMARK_SERVER_TOKEN is required")
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("mailer: SENDER_EMAIL is required")
	}
	return &Postmark{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:   cfg.SenderEmail,
	}, nil
}

func (p *Postmark) Send(ctx context.Context, to, subject, body string) error {
	res, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.from,
		To:       to,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("postmark: error %d: %s", res.ErrorCode, res.Message)
	}
	return nil
}

// LogSender writes outgoing mail to a structured logger instead of sending
// it. Useful in development, where the OTP has to be read from the logs.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (l *LogSender) Send(ctx context.Context, to, subject, body string) error {
	l.log.InfoContext(ctx, "outgoing email",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
