package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/caludio70/boletosventa-sub000/internal/config"
)

// Mailer wraps SMTP configuration for sending generated documents.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarDocumento sends a generated PDF/XLSX as an attachment.
func (m *Mailer) EnviarDocumento(to, subject, body, adjunto string) error {
	if !m.Configurado() {
		return fmt.Errorf("mailer: SMTP_HOST no configurado")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if adjunto != "" {
		if _, err := e.AttachFile(adjunto); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", adjunto, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
