// Package mail delivers password reset codes.
package mail

import (
	"context"
	"fmt"

	"github.com/badoux/checkmail"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends a reset code to an address.
type Mailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// ResetMessage builds the reset email.
func ResetMessage(from, to, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset")
	m.SetBody("text/plain", "Hi,\n\nYour password reset code for your Beans account is: "+code)
	return m
}

func (s *SMTPMailer) SendResetCode(ctx context.Context, to, code string) error {
	if err := checkmail.ValidateFormat(to); err != nil {
		return fmt.Errorf("validate recipient: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(ResetMessage(s.cfg.From, to, code)); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending; used when no SMTP host is set.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) SendResetCode(_ context.Context, to, code string) error {
	l.logger.Info("password reset code issued (smtp disabled)",
		zap.String("to", to),
		zap.Int("code_len", len(code)),
	)
	return nil
}
