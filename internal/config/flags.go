package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/lanshare/internal/flagx"
)

// serverFlags lists every flag parseFlags owns; anything else on the command
// line belongs to another layer and is filtered out first.
var serverFlags = []string{
	"-a", "-s", "-b", "-m", "-k", "-l", "-f", "-t",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key",
}

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string   HTTP listen address (":8501")
//	-s string   metadata store: SQLite file path or postgres:// DSN
//	-b string   blob directory (local backend)
//	-m int      max upload size, MiB
//	-k string   blob backend: local | s3
//	-l string   log level
//	-f string   log format: json | text
//	-t int      graceful shutdown timeout, seconds
//	-s3-bucket, -s3-region, -s3-endpoint, -s3-access-key, -s3-secret-key
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("lanshare", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "HTTP listen address")
	fs.StringVar(&config.StorePath, "s", config.StorePath, "metadata store path or DSN")
	fs.StringVar(&config.BlobDir, "b", config.BlobDir, "blob directory")
	maxUploadMiB := fs.Int64("m", config.MaxUploadBytes/(1024*1024), "max upload size (in MiB)")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (local|s3)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only convert values the user actually passed, so that a byte-exact
	// ceiling from env or JSON is not rounded down to whole MiB.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "m":
			config.MaxUploadBytes = *maxUploadMiB * 1024 * 1024
		case "t":
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})

	return nil
}
