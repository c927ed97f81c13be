package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useEnvFile(t *testing.T, path string) {
	t.Helper()
	orig := envFile
	envFile = path
	t.Cleanup(func() { envFile = orig })
}

func TestParseEnv_ReadsVariables(t *testing.T) {
	useEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("LANSHARE_STORE_PATH", "postgres://lan:lan@db:5432/lanshare")
	t.Setenv("LANSHARE_BLOB_BACKEND", "s3")
	t.Setenv("LANSHARE_S3_BUCKET", "shared")
	t.Setenv("LANSHARE_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("LANSHARE_MAX_REQUEST_BYTES", "8192")
	t.Setenv("LANSHARE_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LANSHARE_LOG_FORMAT", "text")

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, "postgres://lan:lan@db:5432/lanshare", c.StorePath)
	assert.Equal(t, BlobBackendS3, c.BlobBackend)
	assert.Equal(t, "shared", c.S3Bucket)
	assert.Equal(t, int64(2048), c.MaxUploadBytes)
	assert.Equal(t, int64(8192), c.MaxRequestBytes)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, ":8501", c.ListenAddr, "untouched values keep defaults")
}

func TestParseEnv_LoadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANSHARE_BLOB_DIR=/data/blobs\nLANSHARE_LOG_LEVEL=debug\n"), 0o600))
	useEnvFile(t, path)

	t.Cleanup(func() {
		_ = os.Unsetenv("LANSHARE_BLOB_DIR")
		_ = os.Unsetenv("LANSHARE_LOG_LEVEL")
	})

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, "/data/blobs", c.BlobDir)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestParseEnv_ProcessEnvWinsOverDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANSHARE_LISTEN_ADDR=:1111\n"), 0o600))
	useEnvFile(t, path)
	t.Setenv("LANSHARE_LISTEN_ADDR", ":2222")

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, ":2222", c.ListenAddr)
}

func TestParseEnv_BadNumbers(t *testing.T) {
	useEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))

	t.Run("upload size", func(t *testing.T) {
		t.Setenv("LANSHARE_MAX_UPLOAD_BYTES", "lots")
		c := &Config{}
		require.Error(t, parseEnv(c))
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("LANSHARE_READ_TIMEOUT", "forever")
		c := &Config{}
		require.Error(t, parseEnv(c))
	})
}
