package mail

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// Message is a transactional HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the SMTP settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", cfg.Port)
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// Send delivers msg. gomail has no context support, so cancellation is only
// honoured before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(buildMessage(m.from, msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

// PasswordResetMessage builds the password recovery email.
func PasswordResetMessage(to, resetLink string) Message {
	link := html.EscapeString(resetLink)
	return Message{
		To:      to,
		Subject: "Recuperação de Senha",
		HTML: `<h1>Recuperação de Senha</h1>
<p>Você solicitou a recuperação de senha. Clique no link abaixo para redefinir sua senha:</p>
<a href="` + link + `">Redefinir Senha</a>
<p>Este link é válido por 1 hora.</p>
<p>Se você não solicitou esta recuperação, ignore este email.</p>`,
	}
}
