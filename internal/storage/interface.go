package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface abstracts the photo blob store. The local implementation
// serves development and tests; a cloud backend satisfies the same contract.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the photo to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a URL the photo can be fetched from.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage
	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the local implementation's HTTP handlers.
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
