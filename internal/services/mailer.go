package services

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"nextday/internal/config"
)

// Mailer はパスワードリセットメールを送信します。
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// SMTPMailer は net/smtp でメールを送信します。Host が空の場合は送信せずにURLをログに出します。
type SMTPMailer struct {
	cfg    config.SMTP
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTP, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	if m.cfg.Host == "" {
		m.logger.Info("SMTP not configured, reset link logged instead", zap.String("to", to), zap.String("url", resetURL))
		return nil
	}

	// 件名と本文
	message := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: パスワードリセット\r\n\r\n以下のURLからパスワードを再設定してください。\r\n%s",
		m.cfg.From, to, resetURL,
	))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
