// Package storage provides access to the media object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the durable key-addressed store uploaded and derived media
// lives in.
type ObjectStore interface {
	// Put streams body into bucket under key.
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error

	// Get streams the named object into dst.
	Get(ctx context.Context, bucket, key string, dst io.WriterAt) (int64, error)
}

// S3Store implements ObjectStore on S3 using the transfer manager, so large
// video files stream in parts instead of being buffered whole.
type S3Store struct {
	uploader   *manager.Uploader
	downloader *manager.Downloader
	logger     *slog.Logger
}

// NewS3Store creates an object store backed by the given S3 client.
func NewS3Store(client *s3.Client, logger *slog.Logger) *S3Store {
	return &S3Store{
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		logger:     logger,
	}
}

// Put uploads body as a multipart transfer.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", bucket, key, err)
	}
	s.logger.Debug("object stored", "bucket", bucket, "key", key)
	return nil
}

// Get downloads the object into dst and reports the byte count.
func (s *S3Store) Get(ctx context.Context, bucket, key string, dst io.WriterAt) (int64, error) {
	n, err := s.downloader.Download(ctx, dst, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("downloading s3://%s/%s: %w", bucket, key, err)
	}
	return n, nil
}
