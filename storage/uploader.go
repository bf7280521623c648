// Package storage puts uploaded images into S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// UploadResult describes a stored object. Location is its public URL.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is satisfied by S3Uploader and by test doubles.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ObjectKey names a new object for the record ownerID in folder, e.g.
// "players/12/1b4e28ba-2fa1-4f3b-8c1d-6d5a1c2e3f40.png". Every call returns a
// fresh key.
func ObjectKey(folder string, ownerID int, ext string) string {
	return fmt.Sprintf("%s/%d/%s%s", folder, ownerID, uuid.NewString(), ext)
}
