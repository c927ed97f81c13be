package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded when present; variables already set in the process
// environment win over the file.
var envFile = ".env"

// parseEnv overlays LANSHARE_* environment variables onto config.
func parseEnv(config *Config) error {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	setString(&config.ListenAddr, "LANSHARE_LISTEN_ADDR")
	setString(&config.StorePath, "LANSHARE_STORE_PATH")
	setString(&config.BlobDir, "LANSHARE_BLOB_DIR")
	setString(&config.BlobBackend, "LANSHARE_BLOB_BACKEND")
	setString(&config.S3Bucket, "LANSHARE_S3_BUCKET")
	setString(&config.S3Region, "LANSHARE_S3_REGION")
	setString(&config.S3BaseEndpoint, "LANSHARE_S3_BASE_ENDPOINT")
	setString(&config.S3AccessKey, "LANSHARE_S3_ACCESS_KEY")
	setString(&config.S3SecretKey, "LANSHARE_S3_SECRET_KEY")
	setString(&config.LogLevel, "LANSHARE_LOG_LEVEL")
	setString(&config.LogFormat, "LANSHARE_LOG_FORMAT")

	for key, dst := range map[string]*int64{
		"LANSHARE_MAX_UPLOAD_BYTES":  &config.MaxUploadBytes,
		"LANSHARE_MAX_REQUEST_BYTES": &config.MaxRequestBytes,
	} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	for key, dst := range map[string]*time.Duration{
		"LANSHARE_SHUTDOWN_TIMEOUT": &config.ShutdownTimeout,
		"LANSHARE_READ_TIMEOUT":     &config.ReadTimeout,
		"LANSHARE_WRITE_TIMEOUT":    &config.WriteTimeout,
	} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
