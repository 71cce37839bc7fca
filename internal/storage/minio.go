// internal/storage/minio.go
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fieldsight/survey-api/internal/config"
	"github.com/fieldsight/survey-api/internal/domain"
)

// MinioClient implements ObjectStorage against any S3-compatible endpoint.
// Every survey object lives under one fixed bucket and path prefix.
type MinioClient struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioClient(cfg config.StorageConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinioClient{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.PathPrefix, "/"),
	}, nil
}

// Open stats the object first so a missing key surfaces as ErrNotFound
// before any bytes are streamed, then hands back the lazy object reader.
func (c *MinioClient) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	path := c.objectPath(key)

	stat, err := c.client.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, fmt.Errorf("object %s: %w", path, domain.ErrNotFound)
		}
		return nil, ObjectInfo{}, fmt.Errorf("stat object %s: %w", path, err)
	}

	obj, err := c.client.GetObject(ctx, c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get object %s: %w", path, err)
	}

	return obj, ObjectInfo{
		Key:         key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

func (c *MinioClient) objectPath(key string) string {
	key = strings.TrimSpace(key)
	if c.prefix == "" {
		return key
	}
	return c.prefix + "/" + key
}

var _ ObjectStorage = (*MinioClient)(nil)
