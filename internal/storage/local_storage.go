package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned when a storage key would escape the photos
// directory.
var ErrInvalidKey = errors.New("invalid storage key")

// LocalStorageService keeps photos on the local filesystem and hands out
// upload/download URLs served by this process. Good enough for development
// and single-instance deployments.
type LocalStorageService struct {
	baseURL   string
	photosDir string
}

func NewLocalStorageService(baseURL, uploadsDir string) (*LocalStorageService, error) {
	photosDir := filepath.Join(uploadsDir, "photos")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	return &LocalStorageService{
		baseURL:   baseURL,
		photosDir: photosDir,
	}, nil
}

func (s *LocalStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	uploadToken := uuid.New().String()
	return fmt.Sprintf("%s/api/v1/photos/upload/%s?key=%s", s.baseURL, uploadToken, key), nil
}

func (s *LocalStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return fmt.Sprintf("%s/api/v1/photos/download/%s?key=%s", s.baseURL, encodeKey(key), key), nil
}

// keyPath resolves key under the photos directory, rejecting keys that
// traverse out of it.
func (s *LocalStorageService) keyPath(key string) (string, error) {
	if !filepath.IsLocal(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.photosDir, key), nil
}

func (s *LocalStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorageService) SaveFile(key string, reader io.Reader) error {
	fullPath, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorageService) ReadFile(key string) (io.ReadCloser, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// encodeKey creates a URL-safe hash of the key
func encodeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
