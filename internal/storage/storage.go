package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/edutask-api/internal/constants"
)

var ErrInvalidName = errors.New("invalid object name")

// ImageStore persists uploaded task images
type ImageStore interface {
	// Save writes the image under name and returns the path clients use to fetch it
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)

	// Delete removes a previously saved image
	Delete(ctx context.Context, name string) error
}

// GenerateImageName returns a collision-resistant filename that keeps the
// extension of the uploaded file, falling back to jpg.
func GenerateImageName(originalFilename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filepath.Base(originalFilename)), ".")
	ext = strings.ToLower(ext)
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = constants.DefaultImageExtension
	}
	return constants.ImageFilePrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}

// validName rejects anything that is not a plain file name
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
