package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

// TestSecret signs tokens in tests
const TestSecret = "test-jwt-secret"

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
	// Raw overrides Body with a prebuilt payload such as a multipart form
	Raw io.Reader
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Header     http.Header
	Raw        []byte
	Body       map[string]interface{}
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router *gin.Engine, req TestRequest) TestResponse {
	t.Helper()

	body := req.Raw
	if body == nil {
		var payload []byte
		if req.Body != nil {
			var err error
			payload, err = json.Marshal(req.Body)
			if err != nil {
				t.Fatalf("Failed to marshal request body: %v", err)
			}
		}
		body = bytes.NewBuffer(payload)
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	res := TestResponse{
		StatusCode: w.Code,
		Header:     w.Header(),
		Raw:        w.Body.Bytes(),
	}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(w.Body.Bytes(), &res.Body); err != nil {
			t.Fatalf("Failed to unmarshal response body: %v", err)
		}
	}
	return res
}

// AuthHeader returns an Authorization header for user
func AuthHeader(t *testing.T, user *models.User) map[string]string {
	t.Helper()

	token, err := utils.GenerateToken(utils.TokenClaims{
		UserID:      user.ID,
		Email:       user.Email,
		AccountType: user.AccountType,
	}, TestSecret)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// Data returns the data object of a standard response
func (r TestResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}
