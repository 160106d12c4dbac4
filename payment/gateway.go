package payment

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrGatewayRejected is returned when the gateway refuses to create or return an order
var ErrGatewayRejected = errors.New("payment gateway rejected the order")

// Order note keys binding a gateway order to the buyer and the courses it pays for
const (
	NoteCourses = "courses"
	NoteUser    = "user"
)

// Order is the gateway side handle for a checkout. It is never persisted.
type Order struct {
	ID       string            `json:"orderId"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status,omitempty"`
	Notes    map[string]string `json:"-"`
}

// Gateway creates and looks up orders with a payment provider
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
	// KeyID is the public key the client needs to open the checkout form
	KeyID() string
}

// OrderNotes builds the notes stored on the order for userID buying courseIDs
func OrderNotes(userID uint, courseIDs []uint) map[string]string {
	return map[string]string{
		NoteCourses: JoinIDs(courseIDs),
		NoteUser:    strconv.FormatUint(uint64(userID), 10),
	}
}

// JoinIDs renders ids sorted and comma separated
func JoinIDs(ids []uint) string {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// Covers reports whether the order was created for userID buying exactly courseIDs
func (o *Order) Covers(userID uint, courseIDs []uint) bool {
	if o == nil || o.Notes == nil {
		return false
	}
	return o.Notes[NoteUser] == strconv.FormatUint(uint64(userID), 10) &&
		o.Notes[NoteCourses] == JoinIDs(courseIDs)
}
