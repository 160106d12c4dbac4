package services

import (
	"context"
	"testing"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWritesOneEntryPerCourse(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 799, 1)

	payments, err := f.ledger.Record(context.Background(), f.student.ID, []uint{a.ID, b.ID}, "order_1", "pay_1")
	require.NoError(t, err)
	require.Len(t, payments, 2)

	for i, course := range []*models.Course{a, b} {
		assert.Equal(t, course.ID, payments[i].CourseID)
		assert.Equal(t, course.Price, payments[i].Amount)
		assert.Equal(t, "pay_1", payments[i].TransactionID)
		assert.Equal(t, "order_1", payments[i].GatewayOrderID)
		assert.Equal(t, models.PaymentStatusCompleted, payments[i].Status)
		assert.Equal(t, models.PaymentMethodRazorpay, payments[i].PaymentMethod)
	}
}

func TestRecordMissingCourseWritesNothing(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)

	_, err := f.ledger.Record(context.Background(), f.student.ID, []uint{a.ID, 9999}, "order_1", "pay_1")

	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Equal(t, int64(0), count(t, f.db, &models.Payment{}))
}

func TestRecordReplayIsConflict(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	ctx := context.Background()

	_, err := f.ledger.Record(ctx, f.student.ID, []uint{a.ID}, "order_1", "pay_1")
	require.NoError(t, err)

	_, err = f.ledger.Record(ctx, f.student.ID, []uint{a.ID}, "order_1", "pay_1")
	assert.ErrorIs(t, err, ErrPaymentReplayed)
	assert.True(t, utils.IsConflictError(err))
	assert.Equal(t, int64(1), count(t, f.db, &models.Payment{}))
}

func TestPaymentsAreImmutable(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)

	payments, err := f.ledger.Record(context.Background(), f.student.ID, []uint{a.ID}, "order_1", "pay_1")
	require.NoError(t, err)

	entry := payments[0]
	entry.Amount = 1
	err = f.db.Save(&entry).Error
	assert.ErrorIs(t, err, models.ErrPaymentImmutable)
}

func TestLedgerQueries(t *testing.T) {
	f := newFixture(t)
	a := f.course(t, "Go", 499, 1)
	b := f.course(t, "Rust", 799, 1)
	ctx := context.Background()

	_, err := f.ledger.Record(ctx, f.student.ID, []uint{a.ID, b.ID}, "order_1", "pay_1")
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, f.student.ID, []uint{a.ID}, "order_2", "pay_2")
	require.NoError(t, err)

	page := &utils.Pagination{Page: 1, Limit: 2}
	history, err := f.ledger.ListByUser(ctx, f.student.ID, page)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.LastPage)

	txn, err := f.ledger.FindByTransaction(ctx, f.student.ID, "pay_1")
	require.NoError(t, err)
	assert.Len(t, txn, 2)

	_, err = f.ledger.FindByTransaction(ctx, f.instructor.ID, "pay_1")
	assert.True(t, utils.IsNotFoundError(err))

	all, err := f.ledger.ListAll(ctx, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	income, err := f.ledger.IncomeByCourse(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(998), income[a.ID])
	assert.Equal(t, int64(799), income[b.ID])
}
