package controllers_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnrolledCoursesReportsProgress(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 4)
	ctx := context.Background()

	_, err := app.ctrl.Enrollment.Enroll(ctx, app.student.ID, course.ID)
	require.NoError(t, err)
	_, err = app.ctrl.Progress.MarkCompleted(ctx, course.ID, app.student.ID, course.Sections[0].SubSections[0].ID)
	require.NoError(t, err)

	res := app.do(t, http.MethodGet, "/api/v1/profile/getEnrolledCourses", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))

	courses := res.Body["data"].([]interface{})
	require.Len(t, courses, 1)
	enrolled := courses[0].(map[string]interface{})
	assert.Equal(t, "Go Basics", enrolled["courseName"])
	assert.Equal(t, 25.0, enrolled["progressPercentage"])
	assert.Equal(t, "4m 0s", enrolled["totalDuration"])
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPut, "/api/v1/profile/updateProfile", app.student, map[string]string{
		"firstName":   "Asha",
		"about":       "Backend learner",
		"gender":      "Female",
		"dateOfBirth": "2000-01-31",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Equal(t, "Asha", res.Data()["firstName"])
	assert.Equal(t, "User", res.Data()["lastName"])

	res = app.do(t, http.MethodPut, "/api/v1/profile/updateProfile", app.student, map[string]string{"firstName": "4sha"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteAccountKeepsLedger(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)
	ctx := context.Background()

	_, err := app.ctrl.Ledger.Record(ctx, app.student.ID, []uint{course.ID}, "order_1", "pay_1")
	require.NoError(t, err)
	_, err = app.ctrl.Enrollment.Enroll(ctx, app.student.ID, course.ID)
	require.NoError(t, err)

	// instructors with courses must remove them first
	res := app.do(t, http.MethodDelete, "/api/v1/profile/deleteProfile", app.instructor, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = app.do(t, http.MethodDelete, "/api/v1/profile/deleteProfile", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))

	assert.Zero(t, count(t, app.db, &models.User{}, "id = ?", app.student.ID))
	assert.Zero(t, count(t, app.db, &models.Enrollment{}, "user_id = ?", app.student.ID))
	assert.Zero(t, count(t, app.db, &models.CourseProgress{}, "user_id = ?", app.student.ID))
	assert.Equal(t, int64(1), count(t, app.db, &models.Payment{}, "user_id = ?", app.student.ID))

	res = app.do(t, http.MethodGet, "/api/v1/profile/getUserDetails", app.student, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestUpdateDisplayPicture(t *testing.T) {
	app := newTestApp(t)
	res := app.upload(t, http.MethodPut, "/api/v1/profile/updateDisplayPicture", app.student, nil,
		map[string]string{"displayPicture": "me.jpg"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))

	var user models.User
	require.NoError(t, app.db.First(&user, app.student.ID).Error)
	assert.Contains(t, user.Image, "me.jpg")
	assert.NotEmpty(t, user.ImageID)
}

func TestPaymentHistoryAndReceipt(t *testing.T) {
	app := newTestApp(t)
	a := app.course(t, "Go Basics", 499, 1)
	b := app.course(t, "Rust Basics", 299, 1)

	_, err := app.ctrl.Ledger.Record(context.Background(), app.student.ID, []uint{a.ID, b.ID}, "order_1", "pay_1")
	require.NoError(t, err)

	res := app.do(t, http.MethodGet, "/api/v1/profile/paymentHistory?page=1&limit=1", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Len(t, res.Body["data"].([]interface{}), 1)
	pagination := res.Body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])

	res = app.do(t, http.MethodGet, "/api/v1/profile/receipt/pay_1", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(res.Raw, []byte("%PDF")))

	// receipts belong to the payer only
	res = app.do(t, http.MethodGet, "/api/v1/profile/receipt/pay_1", app.instructor, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestInstructorDashboard(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)
	ctx := context.Background()

	_, err := app.ctrl.Ledger.Record(ctx, app.student.ID, []uint{course.ID}, "order_1", "pay_1")
	require.NoError(t, err)
	_, err = app.ctrl.Enrollment.Enroll(ctx, app.student.ID, course.ID)
	require.NoError(t, err)

	res := app.do(t, http.MethodGet, "/api/v1/profile/instructorDashboard", app.student, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = app.do(t, http.MethodGet, "/api/v1/profile/instructorDashboard", app.instructor, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	stats := res.Body["data"].([]interface{})
	require.Len(t, stats, 1)
	row := stats[0].(map[string]interface{})
	assert.Equal(t, float64(1), row["totalStudentsEnrolled"])
	assert.Equal(t, float64(499), row["totalAmountGenerated"])
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)
	_, err := app.ctrl.Ledger.Record(context.Background(), app.student.ID, []uint{course.ID}, "order_1", "pay_1")
	require.NoError(t, err)

	res := app.do(t, http.MethodGet, "/api/v1/admin/students", app.student, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = app.do(t, http.MethodGet, "/api/v1/admin/students", app.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, res.Body["data"].([]interface{}), 1)

	res = app.do(t, http.MethodGet, "/api/v1/admin/instructors", app.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, res.Body["data"].([]interface{}), 1)

	res = app.do(t, http.MethodGet, "/api/v1/admin/payments/export", app.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", res.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(res.Raw, []byte("PK")))

	res = app.do(t, http.MethodGet, "/api/v1/admin/payments/export?from=2024-02-01&to=2024-01-01", app.admin, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCategoryRoutes(t *testing.T) {
	app := newTestApp(t)
	app.course(t, "Go Basics", 499, 1)

	res := app.do(t, http.MethodPost, "/api/v1/course/createCategory", app.instructor, map[string]string{"name": "Design", "description": "UI"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = app.do(t, http.MethodPost, "/api/v1/course/createCategory", app.admin, map[string]string{"name": "Design", "description": "UI"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	res = app.do(t, http.MethodPost, "/api/v1/course/createCategory", app.admin, map[string]string{"name": "Design", "description": "UI"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = app.do(t, http.MethodGet, "/api/v1/course/showAllCategories", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, res.Body["data"].([]interface{}), 2)

	res = app.do(t, http.MethodPost, "/api/v1/course/getCategoryPageDetails", nil, map[string]uint{"categoryId": app.category.ID})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	data := res.Data()
	selected := data["selectedCategory"].(map[string]interface{})
	assert.Len(t, selected["courses"].([]interface{}), 1)
	assert.Len(t, data["mostSellingCourses"].([]interface{}), 1)

	res = app.do(t, http.MethodDelete, "/api/v1/course/deleteCategory", app.admin, map[string]uint{"categoryId": app.category.ID})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestContactUs(t *testing.T) {
	app := newTestApp(t)

	res := app.do(t, http.MethodPost, "/api/v1/reach/contact", nil, map[string]string{
		"firstname": "Ravi",
		"lastname":  "Kumar",
		"email":     "ravi@example.com",
		"message":   "Do you offer team plans?",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	require.Equal(t, 2, app.notifier.Count())
	assert.Equal(t, "inbox@learningedge.test", app.notifier.Sent[0].To)
	assert.Equal(t, "ravi@example.com", app.notifier.Sent[1].To)
	assert.Contains(t, app.notifier.Sent[0].Body, "Do you offer team plans?")
}

func TestProfileAndAdminRouteAliases(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Go Basics", 499, 1)

	_, err := app.ctrl.Ledger.Record(context.Background(), app.student.ID, []uint{course.ID}, "order_1", "pay_1")
	require.NoError(t, err)

	res := app.upload(t, http.MethodPut, "/api/v1/profile/updateUserProfileImage", app.student, nil,
		map[string]string{"displayPicture": "me.jpg"})
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))

	res = app.do(t, http.MethodGet, "/api/v1/profile/getPaymentHistory", app.student, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Len(t, res.Body["data"].([]interface{}), 1)

	res = app.do(t, http.MethodGet, "/api/v1/auth/all-students", app.instructor, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = app.do(t, http.MethodGet, "/api/v1/auth/all-students", app.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Len(t, res.Body["data"].([]interface{}), 1)

	res = app.do(t, http.MethodGet, "/api/v1/auth/all-instructors", app.admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(res.Raw))
	assert.Len(t, res.Body["data"].([]interface{}), 1)
}
