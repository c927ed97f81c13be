package web

import (
	"context"
	"embed"
	"html/template"

	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sharing is the part of the sharing service the web layer drives.
type Sharing interface {
	ShareText(ctx context.Context, content string) (int64, error)
	ShareFiles(ctx context.Context, uploads []services.Upload) []services.UploadResult
	RemoveText(ctx context.Context, id int64) error
	RemoveFile(ctx context.Context, id int64) error
	ListAllTexts(ctx context.Context) ([]*models.TextEntry, error)
	ListAllFiles(ctx context.Context) ([]*models.FileEntry, error)
	Download(ctx context.Context, id int64) (*models.FileEntry, []byte, error)
	Stats(ctx context.Context) (services.Stats, error)
	Ping(ctx context.Context) error
	MaxUploadBytes() int64
}

type Handler struct {
	svc             Sharing
	logger          logging.Logger
	page            *template.Template
	shareURL        string
	maxRequestBytes int64
}

// NewHandler parses the embedded page template. shareURL is printed in the
// page footer; an empty value hides the hint. maxRequestBytes caps the body
// of an upload request.
func NewHandler(svc Sharing, logger logging.Logger, shareURL string, maxRequestBytes int64) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		svc:             svc,
		logger:          logger.With("module", "web"),
		page:            page,
		shareURL:        shareURL,
		maxRequestBytes: maxRequestBytes,
	}, nil
}
