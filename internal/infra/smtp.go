package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNoConfigurado = errors.New("smtp no configurado")

// Mailer sends receipts by e-mail. Every send goes through a circuit breaker
// so an unreachable SMTP server fails fast instead of tying up workers.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *Circuito
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NuevoCircuito(ConfigCircuitoSMTP()),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (m *Mailer) Configurado() bool { return m.host != "" }

// Estado exposes the breaker state for the health endpoint.
func (m *Mailer) Estado() EstadoCircuito { return m.cb.Estado() }

// SendRecibo sends a payment receipt, attaching the PDF when pdfPath is set.
func (m *Mailer) SendRecibo(to, subject, body, pdfPath string) error {
	if !m.Configurado() {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Ejecutar(func() error {
		return m.send(e, m.addr, auth)
	})
}
