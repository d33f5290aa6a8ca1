// Package storage persists avatar images in a MinIO bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/openkpi/kpi-manager-api/internal/config"
)

// AvatarStore writes avatar objects and shapes their public URLs.
type AvatarStore struct {
	client *minio.Client
	bucket string
	base   string
}

// NewAvatarStore connects to MinIO and ensures the bucket exists.
func NewAvatarStore(cfg config.MinIOConfig) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check minio bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create minio bucket: %w", err)
		}
	}

	return &AvatarStore{
		client: client,
		bucket: cfg.BucketName,
		base:   strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put stores an avatar object and returns its key.
func (s *AvatarStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored avatar key. An empty key maps to
// the bundled default image. A nil store yields empty URLs so payload
// rendering works without object storage configured.
func (s *AvatarStore) URL(key string) string {
	if s == nil {
		return ""
	}
	if key == "" {
		return s.base + "/" + s.bucket + "/default/avatar.png"
	}
	return s.base + "/" + s.bucket + "/" + key
}
