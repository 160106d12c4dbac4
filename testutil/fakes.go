package testutil

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/Anantmishra121/learningedgeBackend/events"
	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/payment"
)

// ErrFake is returned by fakes configured to fail
var ErrFake = errors.New("fake failure")

// FakeGateway records created orders
type FakeGateway struct {
	mu       sync.Mutex
	Orders   []payment.Order
	Err      error
	FetchErr error
}

// CreateOrder returns a sequential order id
func (g *FakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	order := payment.Order{
		ID:       fmt.Sprintf("order_test%d", len(g.Orders)+1),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
		Notes:    notes,
	}
	g.Orders = append(g.Orders, order)
	return &order, nil
}

// AddOrder registers an order as if userID had checked out courseIDs
func (g *FakeGateway) AddOrder(orderID string, userID uint, courseIDs ...uint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Orders = append(g.Orders, payment.Order{
		ID:       orderID,
		Currency: "INR",
		Status:   "created",
		Notes:    payment.OrderNotes(userID, courseIDs),
	})
}

// FetchOrder returns a recorded order or ErrGatewayRejected
func (g *FakeGateway) FetchOrder(ctx context.Context, orderID string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FetchErr != nil {
		return nil, g.FetchErr
	}
	for _, order := range g.Orders {
		if order.ID == orderID {
			found := order
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s not found", payment.ErrGatewayRejected, orderID)
}

// KeyID returns a fixed test key
func (g *FakeGateway) KeyID() string {
	return "rzp_test_key"
}

// SentMail is one message captured by FakeNotifier
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeNotifier captures sent mail
type FakeNotifier struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

// Send records the message or returns Err
func (n *FakeNotifier) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return "", n.Err
	}
	n.Sent = append(n.Sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return fmt.Sprintf("msg-%d", len(n.Sent)), nil
}

// Count returns the number of messages sent
func (n *FakeNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}

// FakePublisher captures published events
type FakePublisher struct {
	mu     sync.Mutex
	Events []events.EnrollmentEvent
	Err    error
}

// PublishEnrollment records event or returns Err
func (p *FakePublisher) PublishEnrollment(ctx context.Context, event events.EnrollmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Close does nothing
func (p *FakePublisher) Close() error {
	return nil
}

// FakeStore pretends to upload files
type FakeStore struct {
	mu       sync.Mutex
	Uploaded []string
	Deleted  []string
	Duration float64
	Err      error
}

// Upload returns a deterministic URL for file
func (s *FakeStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (*media.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	publicID := fmt.Sprintf("%s/%d-%s", folder, len(s.Uploaded)+1, file.Filename)
	s.Uploaded = append(s.Uploaded, publicID)
	return &media.Upload{
		URL:          "https://cdn.example.com/" + publicID,
		PublicID:     publicID,
		Duration:     s.Duration,
		ResourceType: media.ResourceTypeOf(file.Filename),
	}, nil
}

// Delete records publicID
func (s *FakeStore) Delete(ctx context.Context, resourceType, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deleted = append(s.Deleted, publicID)
	return nil
}
