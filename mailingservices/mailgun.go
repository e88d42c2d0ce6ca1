package mailingservices

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/greenloop/config"
)

// Mailgun wraps the mailgun client used for transactional mail.
type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init(conf *config.Config) {
	m.Client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	m.From = conf.MgEmailFrom
}

// SendResetPassword mails the user their password-reset link.
func (m *Mailgun) SendResetPassword(recipient, resetLink string) error {
	subject := "Reset your GreenLoop password"
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s\n\nIf you did not request this, ignore this mail.", resetLink)

	message := m.Client.NewMessage(m.From, subject, body, recipient)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}

// SendWelcome mails a new user after signup. Failure here is logged by
// the caller and never blocks signup.
func (m *Mailgun) SendWelcome(recipient, fullname string) error {
	subject := "Welcome to GreenLoop"
	body := fmt.Sprintf("Hi %s,\n\nWelcome to GreenLoop! Report waste sightings, collect them, and earn points.\n", fullname)

	message := m.Client.NewMessage(m.From, subject, body, recipient)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}
