package service

import (
	"context"
	"time"
)

// FileStorage is the object-store interface the document pipeline writes
// through. Implemented by the GCS and S3 clients in infrastructure/storage.
type FileStorage interface {
	// Put writes the (possibly encrypted) buffer under key.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error

	// Get reads the object back. Used by the deferred-scan path for
	// objects uploaded directly via a presigned URL.
	Get(ctx context.Context, key string) ([]byte, error)

	// SignedDownloadURL returns a time-limited GET URL. When inline is
	// false the disposition forces an attachment download under filename.
	SignedDownloadURL(ctx context.Context, key, filename string, inline bool, expiry time.Duration) (string, error)

	// SignedUploadURL returns a time-limited PUT URL scoped to key and
	// contentType for direct client uploads.
	SignedUploadURL(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	Delete(ctx context.Context, key string) error

	Close() error
}
