package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when a host is configured and a log mailer otherwise.
func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	if config.Host == "" {
		return NewLogMailer(log)
	}
	return NewSMTPMailer(config, log)
}

// ==================== LOG MAILER ====================

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer writes messages to the log instead of delivering them.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info("Email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// ==================== SMTP MAILER ====================

type smtpMailer struct {
	addr string
	from string
	auth smtp.Auth
	log  *zap.Logger

	// sendMail is smtp.SendMail outside tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	var auth smtp.Auth
	if config.User != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	return &smtpMailer{
		addr:     net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		from:     config.From,
		auth:     auth,
		log:      log.With(zap.String("mailer", "smtp")),
		sendMail: smtp.SendMail,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.sendMail(m.addr, m.auth, m.from, []string{msg.To}, m.compose(msg)); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", msg.To),
		)
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	m.log.Debug("Email sent", zap.String("to", msg.To))
	return nil
}

func (m *smtpMailer) compose(msg Message) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + m.from + "\r\n")
	sb.WriteString("To: " + msg.To + "\r\n")
	sb.WriteString("Subject: " + msg.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)
	return []byte(sb.String())
}
