package storage

import (
	"context"
	"time"
)

// UploadDescriptor is everything a client needs to PUT file bytes directly
// to blob storage, bypassing the API for the transfer itself.
type UploadDescriptor struct {
	URL     string            `json:"upload_url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Expires time.Time         `json:"expires_at"`
}

// ObjectInfo describes a stored object after upload.
type ObjectInfo struct {
	Size        int64  `json:"size"`
	ETag        string `json:"etag"`
	ContentType string `json:"content_type"`
}

// Presigner issues time-limited direct-access URLs and inspects stored
// objects. Implementations must be safe for concurrent use.
type Presigner interface {
	PresignUpload(ctx context.Context, object, contentType string) (*UploadDescriptor, error)
	PresignDownload(ctx context.Context, object string) (string, error)
	Stat(ctx context.Context, object string) (*ObjectInfo, error)
	Delete(ctx context.Context, object string) error
}
