package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "marys-blog", c.MongoDB)
	assert.Equal(t, 10*time.Second, c.MongoTimeout)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, "minio", c.MediaBackend)
	assert.False(t, c.MailEnabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateMediaBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MEDIA_BACKEND", "ftp")
	_, err := Load()
	assert.ErrorContains(t, err, "MEDIA_BACKEND")

	t.Setenv("MEDIA_BACKEND", "s3")
	_, err = Load()
	assert.ErrorContains(t, err, "S3_BUCKET")

	t.Setenv("S3_BUCKET", "images")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "images", c.S3Bucket)
}

func TestMailEnabled(t *testing.T) {
	c := &Config{SMTPEmail: "me@example.com", SMTPPassword: "pw"}
	assert.True(t, c.MailEnabled())
}
