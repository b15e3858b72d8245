package infra

import (
	"fmt"
	"net/smtp"

	"poultrycore/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending alert emails. Deliveries run
// through a circuit breaker so a dead relay fails fast instead of stalling
// the alert worker.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	breaker  *Breaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewBreaker(BreakerConfig{}),
	}
}

// Send delivers a plain-text mail.
func (m *Mailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.breaker.Do(func() error {
		return e.Send(m.addr, auth)
	})
}
