// Package config assembles the LanShare runtime configuration from, in
// increasing precedence: built-in defaults, the environment (optionally
// seeded from a .env file), a JSON file named by -c/-config, and flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"

	// DefaultMaxUploadBytes is the per-file ceiling, 100 MiB.
	DefaultMaxUploadBytes int64 = 100 * 1024 * 1024

	// requestLimitFactor sizes the default request body cap from the
	// per-file ceiling.
	requestLimitFactor = 4
)

// Config holds runtime settings shared by the web server and the CLI.
//
// Fields:
//   - ListenAddr: HTTP bind address.
//   - StorePath: metadata store location. A postgres:// DSN selects
//     PostgreSQL, anything else is an SQLite database file.
//   - BlobDir: directory holding uploaded bytes for the local backend.
//   - MaxUploadBytes: size ceiling for a single file.
//   - MaxRequestBytes: size ceiling for a whole upload request; 0 means
//     four times MaxUploadBytes.
//   - BlobBackend: "local" or "s3".
//   - S3*: bucket settings for the s3 backend (MinIO and friends work too).
//   - LogLevel / LogFormat: slog level name and "json" or "text".
//   - ShutdownTimeout, ReadTimeout, WriteTimeout: HTTP server timings.
type Config struct {
	ListenAddr      string
	StorePath       string
	BlobDir         string
	MaxUploadBytes  int64
	MaxRequestBytes int64
	BlobBackend     string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// LoadDefaults mirrors the layout of a fresh checkout: database file and
// blob directory next to the binary, port 8501.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8501"
	c.StorePath = "shared_storage.db"
	c.BlobDir = "shared_files"
	c.MaxUploadBytes = DefaultMaxUploadBytes
	c.BlobBackend = BlobBackendLocal
	c.S3Bucket = "lanshare"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.ShutdownTimeout = 10 * time.Second
	c.ReadTimeout = 60 * time.Second
	c.WriteTimeout = 120 * time.Second
}

// Validate rejects combinations the stores cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxRequestBytes < 0 {
		errs = append(errs, fmt.Errorf("max request bytes must not be negative, got %d", c.MaxRequestBytes))
	} else if c.MaxRequestBytes > 0 && c.MaxRequestBytes < c.MaxUploadBytes {
		errs = append(errs, fmt.Errorf("max request bytes %d is below max upload bytes %d", c.MaxRequestBytes, c.MaxUploadBytes))
	}
	if c.StorePath == "" {
		errs = append(errs, errors.New("store path is required"))
	}

	switch c.BlobBackend {
	case BlobBackendLocal:
		if c.BlobDir == "" {
			errs = append(errs, errors.New("blob dir is required for the local backend"))
		}
	case BlobBackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob backend %q", c.BlobBackend))
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// RequestLimit is the body cap for upload requests.
func (c *Config) RequestLimit() int64 {
	if c.MaxRequestBytes > 0 {
		return c.MaxRequestBytes
	}
	return c.MaxUploadBytes * requestLimitFactor
}

// LoadConfig builds a Config from defaults, environment, the optional JSON
// file and finally args (usually os.Args[1:]), then validates it.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
