package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// ErrWrite marks a failed artifact upload
var ErrWrite = errors.New("storage write failed")

// Store uploads an artifact and returns its public reference. Paths are
// namespaced by the caller; no two uploads ever share a path, so writes
// never contend.
type Store interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// GCSStore writes artifacts to a Google Cloud Storage bucket
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore builds the storage client. Failure here is startup-fatal for
// the service; the store is injected into the task registry, never looked
// up per request.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, objectPath, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectPath), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
