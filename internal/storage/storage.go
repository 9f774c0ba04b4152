package storage

import "context"

// BlobStore writes an already-validated blob under a storage key and returns
// a retrievable URL. Implementations: local disk (default) and S3/MinIO.
type BlobStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// FileReference is the stable handle returned for a stored upload.
type FileReference struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
