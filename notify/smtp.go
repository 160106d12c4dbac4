package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends mail through an SMTP relay
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   Sender
}

// NewSMTPNotifier creates a notifier for host:port. gomail dials with a fixed 10s timeout.
func NewSMTPNotifier(host string, port int, username, password string, from Sender) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one html message
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if n.dialer.Host == "" {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), n.dialer.Host)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from.Address, n.from.Name)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email: %v", err)
	}
	return messageID, nil
}
