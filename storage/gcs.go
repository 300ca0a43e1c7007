package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
)

// GCSStore uploads media to a Google Cloud Storage bucket and returns the
// public object URL.
type GCSStore struct {
	cl         *storage.Client
	projectID  string
	bucketName string
	uploadPath string
}

// NewGCSStore builds a store for the given bucket. Credentials come from
// the usual GOOGLE_APPLICATION_CREDENTIALS environment.
func NewGCSStore(ctx context.Context, projectID, bucketName string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{
		cl:         client,
		projectID:  projectID,
		bucketName: bucketName,
		uploadPath: "photos/",
	}, nil
}

// Save uploads the object with a unique timestamped name.
func (s *GCSStore) Save(ctx context.Context, r io.Reader, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	objectPath := s.uploadPath + timestamp + "_" + sanitize(name)

	wc := s.cl.Bucket(s.bucketName).Object(objectPath).NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath), nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.cl.Close()
}
