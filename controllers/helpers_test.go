package controllers_test

import (
	"bytes"
	"mime/multipart"
	"testing"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/config"
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/routes"
	"github.com/Anantmishra121/learningedgeBackend/services"
	"github.com/Anantmishra121/learningedgeBackend/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testKeySecret = "rzp_test_secret"

type testApp struct {
	router     *gin.Engine
	ctrl       *controllers.Controller
	db         *gorm.DB
	gateway    *testutil.FakeGateway
	notifier   *testutil.FakeNotifier
	publisher  *testutil.FakePublisher
	store      *testutil.FakeStore
	student    *models.User
	instructor *models.User
	admin      *models.User
	category   *models.Category
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	app := &testApp{
		db:        db,
		gateway:   &testutil.FakeGateway{},
		notifier:  &testutil.FakeNotifier{},
		publisher: &testutil.FakePublisher{},
		store:     &testutil.FakeStore{Duration: 42.4},
	}

	cfg := &config.Config{
		JWTSecret:         testutil.TestSecret,
		Env:               "test",
		FrontendURL:       "http://localhost:5173",
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: testKeySecret,
		Currency:          "INR",
		MediaFolder:       "learningedge",
		UploadDir:         t.TempDir(),
		OutboundTimeout:   5 * time.Second,
		AdminEmail:        "inbox@learningedge.test",
	}

	tracker := services.NewProgressTracker(db)
	enrollment := services.NewEnrollmentEngine(db, tracker)
	ledger := services.NewLedgerRecorder(db)
	checkout := services.NewCheckoutService(db, app.gateway, ledger, enrollment, app.notifier, app.publisher, services.CheckoutConfig{
		KeySecret: testKeySecret,
		Currency:  "INR",
	})

	app.ctrl = &controllers.Controller{
		DB:         db,
		Config:     cfg,
		Checkout:   checkout,
		Ledger:     ledger,
		Enrollment: enrollment,
		Progress:   tracker,
		Notifier:   app.notifier,
		Media:      app.store,
	}
	app.router = routes.SetupRouter(app.ctrl)

	app.student = testutil.CreateTestUser(t, db, "student@example.com", models.AccountTypeStudent)
	app.instructor = testutil.CreateTestUser(t, db, "instructor@example.com", models.AccountTypeInstructor)
	app.admin = testutil.CreateTestUser(t, db, "admin@example.com", models.AccountTypeAdmin)
	app.category = testutil.CreateTestCategory(t, db, "Programming")
	return app
}

func (a *testApp) course(t *testing.T, name string, price int64, units int) *models.Course {
	return testutil.CreateTestCourse(t, a.db, a.instructor.ID, a.category.ID, name, price, units)
}

func (a *testApp) do(t *testing.T, method, path string, user *models.User, body interface{}) testutil.TestResponse {
	t.Helper()

	req := testutil.TestRequest{Method: method, Path: path, Body: body}
	if user != nil {
		req.Headers = testutil.AuthHeader(t, user)
	}
	return testutil.MakeTestRequest(t, a.router, req)
}

// multipartForm builds a form with text fields and one file per entry of files
func multipartForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake file content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (a *testApp) upload(t *testing.T, method, path string, user *models.User, fields, files map[string]string) testutil.TestResponse {
	t.Helper()

	body, contentType := multipartForm(t, fields, files)
	headers := testutil.AuthHeader(t, user)
	headers["Content-Type"] = contentType
	return testutil.MakeTestRequest(t, a.router, testutil.TestRequest{
		Method:  method,
		Path:    path,
		Raw:     body,
		Headers: headers,
	})
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
