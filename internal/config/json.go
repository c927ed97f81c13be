package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lanshare/internal/flagx"
	"github.com/dmitrijs2005/lanshare/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// "10s" style strings or integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	StorePath       string         `json:"store_path"`
	BlobDir         string         `json:"blob_dir"`
	MaxUploadBytes  int64          `json:"max_upload_bytes"`
	MaxRequestBytes int64          `json:"max_request_bytes"`
	BlobBackend     string         `json:"blob_backend"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	ReadTimeout     timex.Duration `json:"read_timeout"`
	WriteTimeout    timex.Duration `json:"write_timeout"`
}

// parseJson overlays the file named by -c/-config onto config. Only keys
// present with a non-zero value replace what earlier layers set.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&config.ListenAddr, c.ListenAddr)
	overlay(&config.StorePath, c.StorePath)
	overlay(&config.BlobDir, c.BlobDir)
	overlay(&config.BlobBackend, c.BlobBackend)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.S3AccessKey, c.S3AccessKey)
	overlay(&config.S3SecretKey, c.S3SecretKey)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.MaxUploadBytes, c.MaxUploadBytes)
	overlay(&config.MaxRequestBytes, c.MaxRequestBytes)
	overlay(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	overlay(&config.ReadTimeout, c.ReadTimeout.Duration)
	overlay(&config.WriteTimeout, c.WriteTimeout.Duration)

	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
