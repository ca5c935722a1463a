package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/justinloyola/alma/internal/config"
	"github.com/justinloyola/alma/internal/model"
)

// S3 stores resumes in an S3-compatible object store (MinIO, AWS S3, etc.)
// under a "resumes/" prefix. It is safe for concurrent use by multiple
// goroutines.
type S3 struct {
	client *minio.Client
	bucket string
}

// NewS3 creates the S3 backend. It validates connectivity and ensures the
// bucket exists (creates it if missing).
func NewS3(cfg config.MinIOConfig) (*S3, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &S3{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return s, nil
}

func (s *S3) Kind() model.StorageKind { return model.StorageS3 }

// Save uploads the content under a generated key using streaming I/O only.
func (s *S3) Save(ctx context.Context, lead *model.Lead, r io.Reader, originalFilename, mimeType string, metadata map[string]string) (string, error) {
	key := "resumes/" + newKey(originalFilename)

	meta := map[string]string{"original-filename": originalFilename}
	for k, v := range metadata {
		meta[k] = v
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: meta,
	})
	if err != nil {
		return "", fmt.Errorf("upload resume object: %w", err)
	}
	return key, nil
}

// Open downloads the stored object, or ErrNotStored when the key is unset
// or the object is gone.
func (s *S3) Open(ctx context.Context, lead *model.Lead) (io.ReadCloser, error) {
	if !lead.HasResume() {
		return nil, ErrNotStored
	}
	obj, err := s.client.GetObject(ctx, s.bucket, *lead.ResumePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get resume object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotStored
		}
		return nil, fmt.Errorf("stat resume object: %w", err)
	}
	return obj, nil
}

// Delete removes the stored object; reports whether an object was removed.
func (s *S3) Delete(ctx context.Context, lead *model.Lead) (bool, error) {
	if !lead.HasResume() {
		return false, nil
	}
	key := *lead.ResumePath
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat resume object: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("delete resume object: %w", err)
	}
	return true, nil
}

func (s *S3) URL(lead *model.Lead) string { return downloadURL(lead) }
