package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends mail through the SendGrid v3 API
type SendGridNotifier struct {
	client *sendgrid.Client
	apiKey string
	from   Sender
}

// NewSendGridNotifier creates a SendGrid backed notifier
func NewSendGridNotifier(apiKey string, from Sender) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		apiKey: apiKey,
		from:   from,
	}
}

// Send delivers one html message. The id comes from the X-Message-Id header.
func (n *SendGridNotifier) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if n.apiKey == "" {
		return "", ErrNotConfigured
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(n.from.Name, n.from.Address),
		subject,
		mail.NewEmail("", to),
		"",
		htmlBody,
	)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %v", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
