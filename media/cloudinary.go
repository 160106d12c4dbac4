package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultCloudinaryURL is the Cloudinary REST API root
const DefaultCloudinaryURL = "https://api.cloudinary.com/v1_1"

// CloudinaryStore uploads media through Cloudinary's signed upload API
type CloudinaryStore struct {
	client    *resty.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// CloudinaryOption customizes a CloudinaryStore
type CloudinaryOption func(*CloudinaryStore)

// WithBaseURL points the store at a different API root
func WithBaseURL(url string) CloudinaryOption {
	return func(s *CloudinaryStore) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// NewCloudinaryStore creates a store for the given cloud account
func NewCloudinaryStore(cloudName, apiKey, apiSecret string, timeout time.Duration, opts ...CloudinaryOption) *CloudinaryStore {
	s := &CloudinaryStore{
		client:    resty.New().SetTimeout(timeout),
		baseURL:   DefaultCloudinaryURL,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type cloudinaryUploadResponse struct {
	SecureURL    string  `json:"secure_url"`
	PublicID     string  `json:"public_id"`
	Duration     float64 `json:"duration"`
	ResourceType string  `json:"resource_type"`
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends file to Cloudinary under folder, images and videos alike
func (s *CloudinaryStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (*Upload, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}
	form := s.signedForm(params)

	var result cloudinaryUploadResponse
	var apiErr cloudinaryError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Filename, src).
		SetFormData(form).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/auto/upload", s.baseURL, s.cloudName))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	return &Upload{
		URL:          result.SecureURL,
		PublicID:     result.PublicID,
		Duration:     result.Duration,
		ResourceType: result.ResourceType,
	}, nil
}

// Delete removes a previously uploaded object
func (s *CloudinaryStore) Delete(ctx context.Context, resourceType, publicID string) error {
	if publicID == "" {
		return nil
	}
	if resourceType == "" {
		resourceType = ResourceImage
	}

	form := s.signedForm(map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	})

	var apiErr cloudinaryError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/%s/destroy", s.baseURL, s.cloudName, resourceType))
	if err != nil {
		return fmt.Errorf("cloudinary delete failed: %v", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cloudinary delete failed with status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	return nil
}

// signedForm adds api_key and signature to params
func (s *CloudinaryStore) signedForm(params map[string]string) map[string]string {
	form := make(map[string]string, len(params)+2)
	for k, v := range params {
		form[k] = v
	}
	form["signature"] = Signature(params, s.apiSecret)
	form["api_key"] = s.apiKey
	return form
}

// Signature signs request params the way Cloudinary expects: sorted
// key=value pairs joined by & with the secret appended, sha1 hex encoded.
// Empty values are skipped.
func Signature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
