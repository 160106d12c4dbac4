package services

import (
	"testing"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/testutil"
	"gorm.io/gorm"
)

const testKeySecret = "rzp_test_secret"

type fixture struct {
	db         *gorm.DB
	gateway    *testutil.FakeGateway
	notifier   *testutil.FakeNotifier
	publisher  *testutil.FakePublisher
	tracker    *ProgressTracker
	enrollment *EnrollmentEngine
	ledger     *LedgerRecorder
	checkout   *CheckoutService
	student    *models.User
	instructor *models.User
	category   *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := &fixture{
		db:        db,
		gateway:   &testutil.FakeGateway{},
		notifier:  &testutil.FakeNotifier{},
		publisher: &testutil.FakePublisher{},
	}
	f.tracker = NewProgressTracker(db)
	f.enrollment = NewEnrollmentEngine(db, f.tracker)
	f.ledger = NewLedgerRecorder(db)
	f.checkout = NewCheckoutService(db, f.gateway, f.ledger, f.enrollment, f.notifier, f.publisher, CheckoutConfig{
		KeySecret: testKeySecret,
		Currency:  "INR",
	})

	f.student = testutil.CreateTestUser(t, db, "student@example.com", models.AccountTypeStudent)
	f.instructor = testutil.CreateTestUser(t, db, "instructor@example.com", models.AccountTypeInstructor)
	f.category = testutil.CreateTestCategory(t, db, "Programming")
	return f
}

func (f *fixture) course(t *testing.T, name string, price int64, units int) *models.Course {
	return testutil.CreateTestCourse(t, f.db, f.instructor.ID, f.category.ID, name, price, units)
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
