package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ArchiveStore keeps a dated copy of each published PDF in a GCS bucket.
// Objects are write-once: re-archiving the same name is a no-op.
type ArchiveStore struct {
	client *storage.Client
	bucket string
}

// NewArchiveStore creates a GCS-backed archive for the given bucket.
func NewArchiveStore(ctx context.Context, bucket string) (*ArchiveStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to create an archive store")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &ArchiveStore{client: client, bucket: bucket}, nil
}

// Archive copies a local file to the bucket only if the object doesn't
// already exist.
func (s *ArchiveStore) Archive(ctx context.Context, localPath, objectName string) error {
	reader, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("could not open %s for archiving: %w", localPath, err)
	}
	defer reader.Close()

	writer := s.client.Bucket(s.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			slog.Info("Archive object already exists, skipping.", "object", objectName)
			return nil
		}
		return fmt.Errorf("failed to write archive object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			slog.Info("Archive object already exists, skipping.", "object", objectName)
			return nil
		}
		return fmt.Errorf("failed to finalize archive object %s: %w", objectName, err)
	}
	return nil
}

func (s *ArchiveStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
