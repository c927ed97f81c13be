package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/dmitrijs2005/lanshare/internal/blobstore"
	"github.com/dmitrijs2005/lanshare/internal/config"
	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/metrics"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Sharing is the part of the sharing service the console uses.
type Sharing interface {
	ShareText(ctx context.Context, content string) (int64, error)
	ShareFile(ctx context.Context, originalName string, content []byte, sizeBytes int64) (int64, error)
	RemoveText(ctx context.Context, id int64) error
	RemoveFile(ctx context.Context, id int64) error
	ListAllTexts(ctx context.Context) ([]*models.TextEntry, error)
	ListAllFiles(ctx context.Context) ([]*models.FileEntry, error)
	Download(ctx context.Context, id int64) (*models.FileEntry, []byte, error)
	Stats(ctx context.Context) (services.Stats, error)
	MaxUploadBytes() int64
}

type App struct {
	svc    Sharing
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
	prompt io.Writer
}

// NewApp opens the stores named by c. Service logs go to stderr so they do
// not interleave with command output.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, rm, err := repomanager.Open(ctx, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := blobstore.FromConfig(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	svc := services.NewSharingService(db, rm, blobs, c, logger, metrics.New(prometheus.NewRegistry()))

	var prompt io.Writer = io.Discard
	if isTerminal(int(os.Stdin.Fd())) {
		prompt = os.Stdout
	}

	a := newApp(svc, os.Stdin, os.Stdout, prompt)
	a.db = db
	return a, nil
}

func newApp(svc Sharing, in io.Reader, out, prompt io.Writer) *App {
	return &App{svc: svc, reader: bufio.NewReader(in), out: out, prompt: prompt}
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}

	fmt.Fprintln(a.prompt, "LanShare console (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.prompt, a.out)
}
