// Package storage keeps binary artifacts (rendered charts, uploaded source
// files) under opaque keys.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content types used for stored artifacts.
const (
	ContentTypePNG = "image/png"
	ContentTypeCSV = "text/csv"
)

// Store persists artifacts by key. Get and Delete of a missing key return
// errors.ErrArtifactNotFound.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewChartKey returns a fresh key for a rendered chart. Keys never repeat, so
// concurrent renders cannot overwrite each other.
func NewChartKey(now time.Time) string {
	return fmt.Sprintf("charts/%04d/%02d/%s.png", now.Year(), int(now.Month()), uuid.NewString())
}

// NewUploadKey returns a fresh key for a source file uploaded by ownerID.
func NewUploadKey(ownerID uint) string {
	return fmt.Sprintf("%s%s.csv", uploadPrefix(ownerID), uuid.NewString())
}

// IsUploadOf reports whether key names a source file uploaded by ownerID.
func IsUploadOf(ownerID uint, key string) bool {
	prefix := uploadPrefix(ownerID)
	if path.Clean(key) != key || !strings.HasPrefix(key, prefix) {
		return false
	}
	name := strings.TrimPrefix(key, prefix)
	return name != ".csv" && !strings.Contains(name, "/") && strings.HasSuffix(name, ".csv")
}

func uploadPrefix(ownerID uint) string {
	return fmt.Sprintf("uploads/%d/", ownerID)
}

// Backends accepted by Open.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Open returns the store for backend: a directory under localDir or an S3
// bucket described by s3cfg.
func Open(ctx context.Context, backend, localDir string, s3cfg S3Config) (Store, error) {
	switch backend {
	case BackendLocal:
		return NewLocalStore(localDir)
	case BackendS3:
		return NewS3Store(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}
