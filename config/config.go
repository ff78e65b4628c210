// Package config loads process configuration from the environment, reading a
// .env file first when one is present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server and CLI read from the environment.
type Config struct {
	MongoURI     string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDB      string        `envconfig:"MONGODB_DB" default:"marys-blog"`
	MongoTimeout time.Duration `envconfig:"MONGODB_TIMEOUT" default:"10s"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Media backend: "minio", "s3" or empty to disable uploads.
	MediaBackend string `envconfig:"MEDIA_BACKEND" default:"minio"`

	MinIOEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinIOAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinIOBucket    string `envconfig:"MINIO_BUCKET" default:"images"`
	MinIOUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinIOPublicURL string `envconfig:"MINIO_PUBLIC_URL"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	SMTPHost             string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort             int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEmail            string `envconfig:"SMTP_EMAIL"`
	SMTPPassword         string `envconfig:"SMTP_PASSWORD"`
	ContactFormRecipient string `envconfig:"CONTACT_FORM_RECIPIENT"`

	AppName    string `envconfig:"APP_NAME" default:"Mary's Blog"`
	AppBaseURL string `envconfig:"APP_BASE_URL" default:"http://localhost:3000"`
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch strings.ToLower(c.MediaBackend) {
	case "", "minio", "s3":
	default:
		return fmt.Errorf("config: MEDIA_BACKEND must be minio or s3, got %q", c.MediaBackend)
	}
	if strings.EqualFold(c.MediaBackend, "s3") && c.S3Bucket == "" {
		return fmt.Errorf("config: S3_BUCKET is required when MEDIA_BACKEND=s3")
	}
	if c.MongoDB == "" {
		return fmt.Errorf("config: MONGODB_DB must not be empty")
	}
	return nil
}

// MailEnabled reports whether SMTP credentials are present.
func (c *Config) MailEnabled() bool {
	return c.SMTPEmail != "" && c.SMTPPassword != ""
}
