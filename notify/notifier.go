package notify

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a notifier with no credentials
var ErrNotConfigured = errors.New("mail provider is not configured")

// Notifier delivers transactional email and returns the provider message id
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Sender identifies the From address of outgoing mail
type Sender struct {
	Name    string
	Address string
}
