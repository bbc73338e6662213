package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// S3Client defines the minimal object-store interface used by the adapter.
// This allows injection of real aws-sdk-go-v2 / MinIO clients or test doubles.
type S3Client interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// S3 persists encoded images to an S3-compatible object store.
type S3 struct {
	client S3Client
	bucket string
}

// NewS3 creates an S3 adapter.  client must not be nil.
func NewS3(client S3Client, defaultBucket string) (*S3, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 storage: client must not be nil")
	}
	return &S3{client: client, bucket: defaultBucket}, nil
}

func (s *S3) bucketFor(key core.StorageKey) string {
	if key.Bucket != "" {
		return key.Bucket
	}
	return s.bucket
}

func (s *S3) Put(ctx context.Context, key core.StorageKey, data []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "s3.put", err)
	}
	bucket := s.bucketFor(key)
	if bucket == "" {
		return apperrors.New(apperrors.CategoryStorage, "s3.put",
			fmt.Errorf("%w: no bucket for %q", apperrors.ErrInvalidArgument, key.Path))
	}
	if err := s.client.PutObject(ctx, bucket, key.Path, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "s3.put", err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, key core.StorageKey) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "s3.get", err)
	}
	rc, err := s.client.GetObject(ctx, s.bucketFor(key), key.Path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "s3.get", err)
	}
	return rc, nil
}
