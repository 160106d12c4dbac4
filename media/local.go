package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore saves uploads to disk. Used when no Cloudinary account is configured.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates a store rooted at dir, served under urlPrefix
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Upload copies file into dir/folder under a random name
func (s *LocalStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	publicID := filepath.ToSlash(filepath.Join(folder, uuid.New().String()+ext))
	target := filepath.Join(s.dir, filepath.FromSlash(publicID))

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %v", err)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to save file: %v", err)
	}

	return &Upload{
		URL:          s.urlPrefix + "/" + publicID,
		PublicID:     publicID,
		ResourceType: ResourceTypeOf(file.Filename),
	}, nil
}

// Delete removes a stored file. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, resourceType, publicID string) error {
	if publicID == "" {
		return nil
	}
	clean := filepath.Clean("/" + filepath.FromSlash(publicID))
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}
