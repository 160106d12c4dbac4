package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "rzp_test_secret"

func mutate(s string, i int) string {
	b := []byte(s)
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}
	return string(b)
}

func TestSignIsDeterministic(t *testing.T) {
	first := Sign("order_Abc123", "pay_Xyz789", testSecret)
	second := Sign("order_Abc123", "pay_Xyz789", testSecret)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestVerifySignature(t *testing.T) {
	orderID := "order_Abc123"
	paymentID := "pay_Xyz789"
	signature := Sign(orderID, paymentID, testSecret)

	assert.True(t, VerifySignature(orderID, paymentID, signature, testSecret))
	assert.False(t, VerifySignature(orderID, paymentID, signature, "other_secret"))
	assert.False(t, VerifySignature(paymentID, orderID, signature, testSecret))
}

func TestVerifySignatureRejectsSingleCharMutations(t *testing.T) {
	orderID := "order_Abc123"
	paymentID := "pay_Xyz789"
	signature := Sign(orderID, paymentID, testSecret)

	for i := range orderID {
		assert.False(t, VerifySignature(mutate(orderID, i), paymentID, signature, testSecret), "order id position %d", i)
	}
	for i := range paymentID {
		assert.False(t, VerifySignature(orderID, mutate(paymentID, i), signature, testSecret), "payment id position %d", i)
	}
	for i := range signature {
		assert.False(t, VerifySignature(orderID, paymentID, mutate(signature, i), testSecret), "signature position %d", i)
	}
}

func TestVerifySignatureMalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"empty order id", "", "pay_1", "abc"},
		{"empty payment id", "order_1", "", "abc"},
		{"empty signature", "order_1", "pay_1", ""},
		{"not hex", "order_1", "pay_1", "zz-not-a-signature"},
		{"truncated", "order_1", "pay_1", Sign("order_1", "pay_1", testSecret)[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(tt.orderID, tt.paymentID, tt.signature, testSecret))
		})
	}
}
