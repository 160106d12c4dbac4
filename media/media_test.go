package media

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSignature(t *testing.T) {
	params := map[string]string{"timestamp": "1315060510", "folder": "courses", "empty": ""}

	sig := Signature(params, "secret")

	assert.Len(t, sig, 40)
	assert.Equal(t, sig, Signature(map[string]string{"folder": "courses", "timestamp": "1315060510"}, "secret"))
	assert.NotEqual(t, sig, Signature(params, "other"))
}

func TestCloudinaryUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/auto/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "courses", r.FormValue("folder"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, Signature(map[string]string{"folder": "courses", "timestamp": "1700000000"}, "secret"), r.FormValue("signature"))

		_, _, err := r.FormFile("file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"secure_url":    "https://res.cloudinary.com/demo/video/upload/lesson.mp4",
			"public_id":     "courses/lesson",
			"duration":      125.4,
			"resource_type": "video",
		})
	}))
	defer server.Close()

	store := NewCloudinaryStore("demo", "key", "secret", 5*time.Second, WithBaseURL(server.URL))
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	upload, err := store.Upload(context.Background(), fileHeader(t, "lesson.mp4", []byte("video")), "courses")
	require.NoError(t, err)

	assert.Equal(t, "courses/lesson", upload.PublicID)
	assert.Equal(t, ResourceVideo, upload.ResourceType)
	assert.InDelta(t, 125.4, upload.Duration, 0.001)
}

func TestCloudinaryUploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer server.Close()

	store := NewCloudinaryStore("demo", "key", "wrong", 5*time.Second, WithBaseURL(server.URL))

	_, err := store.Upload(context.Background(), fileHeader(t, "thumb.png", []byte("img")), "courses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/")

	upload, err := store.Upload(context.Background(), fileHeader(t, "Thumb.PNG", []byte("png-bytes")), "courses")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.URL, "/uploads/courses/"))
	assert.True(t, strings.HasSuffix(upload.PublicID, ".png"))
	assert.Equal(t, ResourceImage, upload.ResourceType)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(upload.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), upload.ResourceType, upload.PublicID))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(upload.PublicID)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), ResourceImage, "courses/missing.png"))
}

func TestValidateFiles(t *testing.T) {
	assert.NoError(t, ValidateImageFile(fileHeader(t, "a.jpg", []byte("x"))))
	assert.Error(t, ValidateImageFile(fileHeader(t, "a.exe", []byte("x"))))
	assert.Error(t, ValidateImageFile(nil))

	assert.NoError(t, ValidateVideoFile(fileHeader(t, "a.mp4", []byte("x"))))
	assert.Error(t, ValidateVideoFile(fileHeader(t, "a.png", []byte("x"))))

	assert.Equal(t, ResourceVideo, ResourceTypeOf("lesson.MOV"))
	assert.Equal(t, ResourceImage, ResourceTypeOf("thumb.jpeg"))
}
