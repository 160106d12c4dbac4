package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyBody(orderID, paymentID, signature string, courseIDs ...uint) map[string]interface{} {
	return map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"coursesId":           courseIDs,
	}
}

func TestPaymentFlow(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 2)

	res := app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", app.student, map[string]interface{}{
		"coursesId": []uint{course.ID},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	data := res.Data()
	assert.Equal(t, float64(49900), data["amount"])
	assert.Equal(t, "INR", data["currency"])
	assert.Equal(t, "rzp_test_key", data["keyId"])
	orderID := data["orderId"].(string)
	require.NotEmpty(t, orderID)

	// tampered signature writes nothing
	bad := payment.Sign(orderID, "pay_1", "wrong-secret")
	res = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", app.student, verifyBody(orderID, "pay_1", bad, course.ID))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Payment failed", res.Body["message"])
	assert.Zero(t, count(t, app.db, &models.Payment{}, ""))
	assert.Zero(t, count(t, app.db, &models.Enrollment{}, ""))
	assert.Zero(t, app.notifier.Count())

	good := payment.Sign(orderID, "pay_1", testKeySecret)
	res = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", app.student, verifyBody(orderID, "pay_1", good, course.ID))
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Equal(t, "Payment Verified", res.Body["message"])
	assert.Equal(t, "Notified", res.Data()["state"])

	var payments []models.Payment
	require.NoError(t, app.db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(499), payments[0].Amount)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	assert.Equal(t, "pay_1", payments[0].TransactionID)
	assert.Equal(t, int64(1), count(t, app.db, &models.Enrollment{}, "user_id = ? AND course_id = ?", app.student.ID, course.ID))
	assert.Equal(t, int64(1), count(t, app.db, &models.CourseProgress{}, "user_id = ? AND course_id = ?", app.student.ID, course.ID))
	assert.Equal(t, 1, app.notifier.Count())
	assert.Len(t, app.publisher.Events, 1)

	// replayed callback is rejected without side effects
	res = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", app.student, verifyBody(orderID, "pay_1", good, course.ID))
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, int64(1), count(t, app.db, &models.Payment{}, ""))
	assert.Equal(t, 1, app.notifier.Count())
}

func TestCapturePaymentValidation(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)

	tests := []struct {
		name   string
		user   *models.User
		body   map[string]interface{}
		status int
	}{
		{"no token", nil, map[string]interface{}{"coursesId": []uint{course.ID}}, http.StatusUnauthorized},
		{"instructor", app.instructor, map[string]interface{}{"coursesId": []uint{course.ID}}, http.StatusForbidden},
		{"empty list", app.student, map[string]interface{}{"coursesId": []uint{}}, http.StatusBadRequest},
		{"unknown course", app.student, map[string]interface{}{"coursesId": []uint{999}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", tt.user, tt.body)
			assert.Equal(t, tt.status, res.StatusCode, string(res.Raw))
		})
	}
	assert.Empty(t, app.gateway.Orders)
}

func TestCapturePaymentAlreadyEnrolled(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)
	_, err := app.ctrl.Enrollment.Enroll(context.Background(), app.student.ID, course.ID)
	require.NoError(t, err)

	res := app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", app.student, map[string]interface{}{
		"coursesId": []uint{course.ID},
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Empty(t, app.gateway.Orders)
}

func TestVerifyPaymentMissingData(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)

	res := app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", app.student, verifyBody("order_1", "", "sig", course.ID))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Payment failed, data not found", res.Body["message"])
	assert.Zero(t, count(t, app.db, &models.Payment{}, ""))
}

func TestSimulatePaymentSignsCallback(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodGet, "/api/v1/payment/simulate?order_id=order_abc", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	data := res.Data()
	assert.True(t, payment.VerifySignature(
		data["razorpay_order_id"].(string),
		data["razorpay_payment_id"].(string),
		data["razorpay_signature"].(string),
		testKeySecret,
	))
}

func TestSendPaymentSuccessEmail(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPost, "/api/v1/payment/sendPaymentSuccessEmail", app.student, map[string]interface{}{
		"orderId":   "order_1",
		"paymentId": "pay_1",
		"amount":    49900,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	require.Equal(t, 1, app.notifier.Count())
	assert.Equal(t, app.student.Email, app.notifier.Sent[0].To)
	assert.Contains(t, app.notifier.Sent[0].Body, "499.00")

	res = app.do(t, http.MethodPost, "/api/v1/payment/sendPaymentSuccessEmail", app.student, map[string]interface{}{
		"orderId": "order_1",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestVerifyPaymentRejectsCoursesNotInOrder(t *testing.T) {
	app := newTestApp(t)
	cheap := app.course(t, "Go Basics", 99, 1)
	pricey := app.course(t, "Rust Basics", 4999, 1)

	res := app.do(t, http.MethodPost, "/api/v1/payment/capturePayment", app.student, map[string]interface{}{
		"coursesId": []uint{cheap.ID},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	orderID := res.Data()["orderId"].(string)

	// a valid signature for the cheap order cannot unlock another course
	good := payment.Sign(orderID, "pay_1", testKeySecret)
	res = app.do(t, http.MethodPost, "/api/v1/payment/verifyPayment", app.student, verifyBody(orderID, "pay_1", good, pricey.ID))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(res.Raw))
	assert.Zero(t, count(t, app.db, &models.Payment{}, ""))
	assert.Zero(t, count(t, app.db, &models.Enrollment{}, ""))
	assert.Zero(t, app.notifier.Count())
}
