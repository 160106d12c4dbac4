package media

import (
	"context"
	"mime/multipart"
)

// Resource types understood by the stores
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Upload describes a stored media object
type Upload struct {
	URL          string  `json:"url"`
	PublicID     string  `json:"publicId"`
	Duration     float64 `json:"duration,omitempty"`
	ResourceType string  `json:"resourceType"`
}

// Store persists course thumbnails, profile images and lesson videos
type Store interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (*Upload, error)
	Delete(ctx context.Context, resourceType, publicID string) error
}
