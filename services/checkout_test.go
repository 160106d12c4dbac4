package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/events"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/payment"
	"github.com/Anantmishra121/learningedgeBackend/testutil"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifyRequest(userID uint, orderID, paymentID string, courseIDs ...uint) VerifyRequest {
	return VerifyRequest{
		UserID:    userID,
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: payment.Sign(orderID, paymentID, testKeySecret),
		CourseIDs: courseIDs,
	}
}

// paid registers a gateway order of the student for courseIDs and returns its signed callback
func (f *fixture) paid(orderID, paymentID string, courseIDs ...uint) VerifyRequest {
	f.gateway.AddOrder(orderID, f.student.ID, courseIDs...)
	return verifyRequest(f.student.ID, orderID, paymentID, courseIDs...)
}

func TestCreateOrderAmountIsSumOfPrices(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 1250, 1)

	order, err := f.checkout.CreateOrder(context.Background(), f.student.ID, []uint{a.ID, b.ID, a.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(174900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.NotEmpty(t, order.Receipt)
	require.Len(t, f.gateway.Orders, 1)
	assert.Equal(t, int64(174900), f.gateway.Orders[0].Amount)
	assert.True(t, f.gateway.Orders[0].Covers(f.student.ID, []uint{b.ID, a.ID}))
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	ctx := context.Background()

	_, err := f.checkout.CreateOrder(ctx, f.student.ID, nil)
	assert.ErrorIs(t, err, ErrNoCourses)
	assert.True(t, utils.IsBadRequestError(err))

	_, err = f.checkout.CreateOrder(ctx, f.student.ID, []uint{a.ID, 777})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = f.enrollment.Enroll(ctx, f.student.ID, a.ID)
	require.NoError(t, err)
	_, err = f.checkout.CreateOrder(ctx, f.student.ID, []uint{a.ID})
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.True(t, utils.IsConflictError(err))

	assert.Empty(t, f.gateway.Orders)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	f.gateway.Err = payment.ErrGatewayRejected

	_, err := f.checkout.CreateOrder(context.Background(), f.student.ID, []uint{a.ID})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, utils.GetAppError(err).Code)
	assert.ErrorIs(t, err, payment.ErrGatewayRejected)
}

func TestVerifySuccessForTwoCourses(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 2)
	b := f.course(t, "Rust", 799, 3)
	ctx := context.Background()

	result, err := f.checkout.Verify(ctx, f.paid("order_1", "pay_1", a.ID, b.ID))
	require.NoError(t, err)

	assert.Equal(t, StateNotified, result.State)
	assert.True(t, result.Succeeded())
	assert.Equal(t, []uint{a.ID, b.ID}, result.Enrolled)
	assert.Equal(t, []uint{a.ID, b.ID}, result.Notified)
	assert.Len(t, result.Payments, 2)

	for _, course := range []*models.Course{a, b} {
		enrolled, err := f.enrollment.IsEnrolled(ctx, f.student.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, enrolled)

		progress, err := f.tracker.Get(ctx, course.ID, f.student.ID)
		require.NoError(t, err)
		assert.Empty(t, progress.UnitIDs())
	}

	assert.Equal(t, int64(2), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(2), count(t, f.db, &models.CourseProgress{}))
	assert.Equal(t, 2, f.notifier.Count())
	assert.Len(t, f.publisher.Events, 2)
	assert.Equal(t, "pay_1", f.publisher.Events[0].TransactionID)
}

func TestVerifyScenarioSingleCourse(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	ctx := context.Background()

	order, err := f.checkout.CreateOrder(ctx, f.student.ID, []uint{course.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(49900), order.Amount)

	bad := verifyRequest(f.student.ID, order.ID, "pay_bad", course.ID)
	bad.Signature = payment.Sign(order.ID, "pay_bad", "wrong-secret")
	result, err := f.checkout.Verify(ctx, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Equal(t, StateRejected, result.State)
	assert.Equal(t, int64(0), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(0), count(t, f.db, &models.Enrollment{}))
	assert.Equal(t, 0, f.notifier.Count())

	result, err = f.checkout.Verify(ctx, verifyRequest(f.student.ID, order.ID, "pay_good", course.ID))
	require.NoError(t, err)
	assert.Equal(t, StateNotified, result.State)

	var payments []models.Payment
	require.NoError(t, f.db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	assert.Equal(t, int64(499), payments[0].Amount)
	assert.Equal(t, int64(1), count(t, f.db, &models.Enrollment{}))
}

func TestVerifyMissingData(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)

	req := f.paid("order_1", "pay_1", course.ID)
	req.Signature = ""
	_, err := f.checkout.Verify(context.Background(), req)

	assert.ErrorIs(t, err, ErrMissingCallbackData)
	assert.True(t, utils.IsBadRequestError(err))

	_, err = f.checkout.Verify(context.Background(), verifyRequest(f.student.ID, "order_1", "pay_1"))
	assert.ErrorIs(t, err, ErrMissingCallbackData)
}

func TestVerifyReplayIsConflict(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	ctx := context.Background()
	req := f.paid("order_1", "pay_1", course.ID)

	_, err := f.checkout.Verify(ctx, req)
	require.NoError(t, err)

	result, err := f.checkout.Verify(ctx, req)
	assert.ErrorIs(t, err, ErrPaymentReplayed)
	assert.Equal(t, StateVerified, result.State)
	assert.Equal(t, int64(1), count(t, f.db, &models.Payment{}))
	assert.Equal(t, 1, f.notifier.Count())
}

type failingEnroller struct {
	*EnrollmentEngine
	fail map[uint]error
}

func (e failingEnroller) Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error) {
	if err := e.fail[courseID]; err != nil {
		return nil, err
	}
	return e.EnrollmentEngine.Enroll(ctx, userID, courseID)
}

func TestVerifyPartialFailure(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 799, 1)
	c := f.course(t, "Zig", 299, 1)
	ctx := context.Background()

	checkout := NewCheckoutService(f.db, f.gateway, f.ledger,
		failingEnroller{EnrollmentEngine: f.enrollment, fail: map[uint]error{
			b.ID: utils.InternalError("Could not enroll student", testutil.ErrFake),
		}},
		f.notifier, f.publisher, CheckoutConfig{KeySecret: testKeySecret})

	result, err := checkout.Verify(ctx, f.paid("order_1", "pay_1", a.ID, b.ID, c.ID))
	require.NoError(t, err)

	assert.Equal(t, StatePartiallyFailed, result.State)
	assert.False(t, result.Succeeded())
	assert.Equal(t, []uint{a.ID, c.ID}, result.Enrolled)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, b.ID, result.Failed[0].CourseID)
	assert.Equal(t, "Could not enroll student", result.Failed[0].Reason)

	assert.Equal(t, int64(3), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(2), count(t, f.db, &models.Enrollment{}))
	assert.Equal(t, []uint{a.ID, c.ID}, result.Notified)
}

func TestVerifyAlreadyEnrolledCourseConverges(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	ctx := context.Background()

	_, err := f.enrollment.Enroll(ctx, f.student.ID, course.ID)
	require.NoError(t, err)

	result, err := f.checkout.Verify(ctx, f.paid("order_1", "pay_1", course.ID))
	require.NoError(t, err)

	assert.Equal(t, StateNotified, result.State)
	assert.Equal(t, []uint{course.ID}, result.Enrolled)
	assert.Empty(t, result.Notified)
	assert.Equal(t, int64(1), count(t, f.db, &models.CourseProgress{}))
}

func TestVerifyNotificationFailureDoesNotChangeOutcome(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	f.notifier.Err = testutil.ErrFake
	f.publisher.Err = testutil.ErrFake

	result, err := f.checkout.Verify(context.Background(), f.paid("order_1", "pay_1", course.ID))
	require.NoError(t, err)

	assert.Equal(t, StateNotified, result.State)
	assert.Equal(t, []uint{course.ID}, result.Enrolled)
	assert.Empty(t, result.Notified)
	assert.Equal(t, int64(1), count(t, f.db, &models.Enrollment{}))
}

func TestSendPaymentSuccessEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.checkout.SendPaymentSuccessEmail(ctx, f.student.ID, "order_1", "pay_1", 49900))
	require.Equal(t, 1, f.notifier.Count())
	assert.Equal(t, f.student.Email, f.notifier.Sent[0].To)
	assert.Contains(t, f.notifier.Sent[0].Body, "499.00")

	err := f.checkout.SendPaymentSuccessEmail(ctx, 9999, "order_1", "pay_1", 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyFailureReasonHidesDriverError(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)

	checkout := NewCheckoutService(f.db, f.gateway, f.ledger,
		failingEnroller{EnrollmentEngine: f.enrollment, fail: map[uint]error{
			course.ID: errors.New("sqlite3: database is locked"),
		}},
		f.notifier, f.publisher, CheckoutConfig{KeySecret: testKeySecret})

	result, err := checkout.Verify(context.Background(), f.paid("order_1", "pay_1", course.ID))
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Could not enroll student", result.Failed[0].Reason)
}

func TestVerifyRejectsCoursesOutsideOrder(t *testing.T) {
	f := newFixture(t)
	cheap := f.course(t, "Go", 99, 1)
	pricey := f.course(t, "Rust", 4999, 1)
	ctx := context.Background()

	order, err := f.checkout.CreateOrder(ctx, f.student.ID, []uint{cheap.ID})
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  uint
		courses []uint
	}{
		{"other course", f.student.ID, []uint{pricey.ID}},
		{"extra course", f.student.ID, []uint{cheap.ID, pricey.ID}},
		{"other user", f.instructor.ID, []uint{cheap.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.checkout.Verify(ctx, verifyRequest(tt.userID, order.ID, "pay_1", tt.courses...))

			assert.ErrorIs(t, err, ErrOrderMismatch)
			assert.True(t, utils.IsBadRequestError(err))
			assert.Equal(t, StateRejected, result.State)
		})
	}

	assert.Equal(t, int64(0), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(0), count(t, f.db, &models.Enrollment{}))
	assert.Equal(t, 0, f.notifier.Count())
}

func TestVerifyGatewayLookupFailure(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	req := f.paid("order_1", "pay_1", course.ID)
	f.gateway.FetchErr = payment.ErrGatewayRejected

	_, err := f.checkout.Verify(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, utils.GetAppError(err).Code)
	assert.Equal(t, int64(0), count(t, f.db, &models.Payment{}))
}

// cancellingEnroller cancels the caller's context before every enrollment
type cancellingEnroller struct {
	*EnrollmentEngine
	cancel context.CancelFunc
}

func (e cancellingEnroller) Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error) {
	e.cancel()
	return e.EnrollmentEngine.Enroll(ctx, userID, courseID)
}

func TestVerifyFinishesEnrollmentAfterClientDisconnects(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 799, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	checkout := NewCheckoutService(f.db, f.gateway, f.ledger,
		cancellingEnroller{EnrollmentEngine: f.enrollment, cancel: cancel},
		f.notifier, f.publisher, CheckoutConfig{KeySecret: testKeySecret})

	result, err := checkout.Verify(ctx, f.paid("order_1", "pay_1", a.ID, b.ID))
	require.NoError(t, err)

	assert.Equal(t, StateNotified, result.State)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []uint{a.ID, b.ID}, result.Enrolled)
	assert.Equal(t, int64(2), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(2), count(t, f.db, &models.Enrollment{}))
	assert.Equal(t, 2, f.notifier.Count())
}

func TestVerifyReplayResumesPendingEnrollment(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 799, 1)
	ctx := context.Background()
	req := f.paid("order_1", "pay_1", a.ID, b.ID)

	// ledger written, then the process stopped before enrolling b
	_, err := f.ledger.Record(ctx, f.student.ID, []uint{a.ID, b.ID}, "order_1", "pay_1")
	require.NoError(t, err)
	_, err = f.enrollment.Enroll(ctx, f.student.ID, a.ID)
	require.NoError(t, err)

	result, err := f.checkout.Verify(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, StateNotified, result.State)
	assert.Equal(t, []uint{b.ID}, result.Enrolled)
	assert.Len(t, result.Payments, 2)
	assert.Equal(t, int64(2), count(t, f.db, &models.Payment{}))
	assert.Equal(t, int64(2), count(t, f.db, &models.Enrollment{}))
	assert.Equal(t, 1, f.notifier.Count())

	_, err = f.checkout.Verify(ctx, req)
	assert.ErrorIs(t, err, ErrPaymentReplayed)
	assert.Equal(t, 1, f.notifier.Count())
}

// deadlinePublisher records whether each publish carried a deadline
type deadlinePublisher struct {
	testutil.FakePublisher
	deadlines []bool
}

func (p *deadlinePublisher) PublishEnrollment(ctx context.Context, event events.EnrollmentEvent) error {
	_, ok := ctx.Deadline()
	p.deadlines = append(p.deadlines, ok)
	return p.FakePublisher.PublishEnrollment(ctx, event)
}

func TestVerifyPublishHasDeadline(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "Go", 499, 1)
	publisher := &deadlinePublisher{}

	checkout := NewCheckoutService(f.db, f.gateway, f.ledger, f.enrollment, f.notifier, publisher,
		CheckoutConfig{KeySecret: testKeySecret, NotifyTimeout: time.Second})

	_, err := checkout.Verify(context.Background(), f.paid("order_1", "pay_1", course.ID))
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, publisher.deadlines)
	assert.Len(t, publisher.Events, 1)
}
