package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/crimeflow/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds connection settings for an S3-compatible object store
type S3Config struct {
	Endpoint        string // e.g. "minio:9000" or "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	UseSSL          bool
}

// S3FS is a FileSystem for "s3://bucket/key" URIs, backed by MinIO's client
type S3FS struct {
	mc *minio.Client
}

// NewS3FS creates an S3FS
func NewS3FS(cfg S3Config) (*S3FS, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint must be configured")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &S3FS{mc: mc}, nil
}

// splitBucketKey parses an s3 URI into a bucket and an object key
func splitBucketKey(uri string) (string, string, error) {
	scheme, location, err := ParseURI(uri)
	if err != nil {
		return "", "", err
	}
	if scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	parts := strings.SplitN(location, "/", 2)
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 {
		return "", "", fmt.Errorf("s3 URI must have the form s3://bucket/key: %s", uri)
	}
	return parts[0], parts[1], nil
}

// Open returns a byte stream for an existing object
func (s *S3FS) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := splitBucketKey(uri)
	if err != nil {
		return nil, err
	}
	obj, err := s.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	// GetObject is lazy, so surface a missing object now rather than on first read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	return obj, nil
}

// s3Writer streams written bytes to a background PutObject
type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

// Close finishes the upload, returning any error encountered while storing the object
func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

// Create returns a byte sink which uploads to an object, creating the bucket if necessary
func (s *S3FS) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	bucket, key, err := splitBucketKey(uri)
	if err != nil {
		return nil, err
	}
	exists, err := s.mc.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := s.mc.PutObject(ctx, bucket, key, pr, -1, minio.PutObjectOptions{ContentType: "text/plain"})
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

// Stat describes an existing object
func (s *S3FS) Stat(ctx context.Context, uri string) (*Info, error) {
	bucket, key, err := splitBucketKey(uri)
	if err != nil {
		return nil, err
	}
	info, err := s.mc.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, errors.ResourceUnavailableError{Resource: uri, Err: err}
	}
	return &Info{URI: uri, Size: info.Size}, nil
}
