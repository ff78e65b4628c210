package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig configures a MinIOUploader.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL objects are served from; defaults to the endpoint
}

// MinIOUploader stores images in a MinIO bucket.
type MinIOUploader struct {
	client *minio.Client
	bucket string
	base   string
}

// NewMinIOUploader creates a client for cfg. It does not contact the server.
func NewMinIOUploader(cfg MinIOConfig) (*MinIOUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: minio client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinIOUploader{client: client, bucket: cfg.Bucket, base: strings.TrimSuffix(base, "/")}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (m *MinIOUploader) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("media: bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("media: make bucket: %w", err)
	}
	return nil
}

func (m *MinIOUploader) Upload(ctx context.Context, folder string, f File) (string, error) {
	now := time.Now().UTC()
	key := ObjectKey(folder, f, now)

	_, err := m.client.PutObject(ctx, m.bucket, key, f.Body, f.Size, minio.PutObjectOptions{
		ContentType: f.ContentType,
		UserMetadata: map[string]string{
			"original-filename": f.Name,
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("media: minio upload: %w", err)
	}

	return m.base + "/" + key, nil
}
