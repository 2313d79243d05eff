// internal/notify/email.go
package notify

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// EmailConfig holds the SMTP settings for the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// NewEmail returns a Handler that sends the call log as a plain-text email.
func NewEmail(cfg EmailConfig) (Handler, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return func(subject, body string) error {
		msg := mail.NewMsg()
		if err := msg.From(cfg.From); err != nil {
			return fmt.Errorf("set sender: %w", err)
		}
		if err := msg.To(cfg.To); err != nil {
			return fmt.Errorf("set recipient: %w", err)
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextPlain, body)

		if err := client.DialAndSend(msg); err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	}, nil
}
