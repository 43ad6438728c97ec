package media

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultAvatarPath is served whenever a profile has no uploaded image.
const DefaultAvatarPath = "/images/default-avatar.png"

// URLPrefix is the public route the uploads directory is mounted under.
const URLPrefix = "/uploads"

const maxImageSize = 5 << 20

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

var ErrInvalidImage = errors.New("invalid image upload")

// ValidateImageHeader rejects empty, oversized or non-image uploads before
// anything touches disk.
func ValidateImageHeader(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > maxImageSize {
		return ErrInvalidImage
	}
	if !allowedTypes[h.Header.Get("Content-Type")] {
		return ErrInvalidImage
	}
	return nil
}

// Store writes uploads under a local directory with uuid filenames.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save copies src to disk and returns the public URL path for the file.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return URLPrefix + "/" + name, nil
}
