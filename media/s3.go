package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3Uploader against AWS or any S3-compatible endpoint.
type S3Config struct {
	Endpoint  string // empty for AWS
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // base URL objects are served from; defaults to <endpoint>/<bucket>
}

// S3Uploader stores images in an S3 bucket using path-style addressing.
type S3Uploader struct {
	client *s3.Client
	bucket string
	base   string
}

// NewS3Uploader loads the AWS configuration with static credentials.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("media: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	base := cfg.PublicURL
	if base == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		base = fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), cfg.Bucket)
	}

	return &S3Uploader{client: client, bucket: cfg.Bucket, base: strings.TrimSuffix(base, "/")}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, folder string, f File) (string, error) {
	// Guarded files are at most MaxFileSize; buffering gives the SDK a
	// seekable body for signing.
	data, err := io.ReadAll(io.LimitReader(f.Body, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("media: upload exceeds %d bytes", MaxFileSize)
	}

	key := ObjectKey(folder, f, time.Now().UTC())
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(f.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 upload: %w", err)
	}

	return u.base + "/" + key, nil
}
