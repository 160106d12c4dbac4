package media

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/utils"
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedVideoTypes defines the allowed lesson video extensions
var AllowedVideoTypes = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
}

// ResourceTypeOf returns image or video based on the file extension
func ResourceTypeOf(filename string) string {
	if AllowedVideoTypes[strings.ToLower(filepath.Ext(filename))] {
		return ResourceVideo
	}
	return ResourceImage
}

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("no file uploaded")
	}
	if file.Size > utils.MaxImageSize {
		return fmt.Errorf("file size exceeds 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageTypes[ext] {
		return fmt.Errorf("invalid file type. Allowed types: jpg, jpeg, png, gif, webp")
	}
	return nil
}

// ValidateVideoFile checks if the uploaded file is a valid lesson video
func ValidateVideoFile(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("no file uploaded")
	}
	if file.Size > utils.MaxVideoSize {
		return fmt.Errorf("file size exceeds 500MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedVideoTypes[ext] {
		return fmt.Errorf("invalid file type. Allowed types: mp4, mov, webm, mkv")
	}
	return nil
}
