package payment

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway creates orders through the Razorpay orders API
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayGateway builds a gateway client with a bounded request timeout
func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	if secs := int16(timeout / time.Second); secs > 0 {
		client.SetTimeout(secs)
	}
	return &RazorpayGateway{client: client, keyID: keyID}
}

// KeyID returns the public Razorpay key
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

type callResult struct {
	body map[string]interface{}
	err  error
}

// call runs fn and gives up when ctx ends. razorpay-go has no context
// support, so an abandoned call finishes in the background.
func call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	done := make(chan callResult, 1)
	go func() {
		body, err := fn()
		done <- callResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayRejected, res.err)
		}
		return res.body, nil
	}
}

// CreateOrder asks Razorpay for a new order of amount minor units
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	orderNotes := make(map[string]interface{}, len(notes))
	for k, v := range notes {
		orderNotes[k] = v
	}
	orderData := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           orderNotes,
	}

	body, err := call(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Create(orderData, nil)
	})
	if err != nil {
		return nil, err
	}

	order, err := orderFromBody(body)
	if err != nil {
		return nil, err
	}
	order.Amount = amount
	order.Currency = currency
	order.Receipt = receipt
	order.Notes = notes
	return order, nil
}

// FetchOrder loads an order with its notes
func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	body, err := call(ctx, func() (map[string]interface{}, error) {
		return g.client.Order.Fetch(orderID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return orderFromBody(body)
}

func orderFromBody(body map[string]interface{}) (*Order, error) {
	id, ok := body["id"]
	if !ok || id == nil {
		return nil, fmt.Errorf("%w: response has no order id", ErrGatewayRejected)
	}

	order := &Order{ID: fmt.Sprintf("%v", id), Notes: map[string]string{}}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if receipt, ok := body["receipt"].(string); ok {
		order.Receipt = receipt
	}
	if status, ok := body["status"]; ok && status != nil {
		order.Status = fmt.Sprintf("%v", status)
	}
	// an order without notes comes back with "notes": []
	if notes, ok := body["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			order.Notes[k] = fmt.Sprintf("%v", v)
		}
	}
	return order, nil
}
