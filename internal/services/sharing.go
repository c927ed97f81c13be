// Package services contains the sharing service, the only component that
// coordinates the metadata store and the blob store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lanshare/internal/blobstore"
	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/config"
	"github.com/dmitrijs2005/lanshare/internal/dbx"
	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/metrics"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/repositories/repomanager"
)

// Operation names used for logging and the operations metric.
const (
	OpShareText  = "share_text"
	OpShareFile  = "share_file"
	OpRemoveText = "remove_text"
	OpRemoveFile = "remove_file"
	OpDownload   = "download"
)

// Stats is the pair of counters shown in the page header.
type Stats struct {
	Texts int64 `json:"texts"`
	Files int64 `json:"files"`
}

// Upload is one file of a multi-file share.
type Upload struct {
	Name      string
	Content   []byte
	SizeBytes int64
}

// UploadResult reports the outcome of one Upload. Err is nil on success.
type UploadResult struct {
	Name string
	ID   int64
	Err  error
}

// Option customizes a SharingService.
type Option func(*SharingService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SharingService) { s.now = now }
}

// WithFileCache puts a metadata cache in front of file lookups by id.
func WithFileCache(c *FileCache) Option {
	return func(s *SharingService) { s.cache = c }
}

type SharingService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	blobs          blobstore.Store
	maxUploadBytes int64
	logger         logging.Logger
	metrics        *metrics.Metrics
	cache          *FileCache
	now            func() time.Time
}

func NewSharingService(db *sql.DB, rm repomanager.RepositoryManager, blobs blobstore.Store,
	cfg *config.Config, logger logging.Logger, m *metrics.Metrics, opts ...Option) *SharingService {

	s := &SharingService{
		db:             db,
		repomanager:    rm,
		blobs:          blobs,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logger,
		metrics:        m,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the per-file ceiling.
func (s *SharingService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Ping checks that the metadata store answers.
func (s *SharingService) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", common.ErrorStorage, err)
	}
	return nil
}

// ShareText stores the trimmed content and returns the new id.
func (s *SharingService) ShareText(ctx context.Context, content string) (id int64, err error) {
	defer func() { s.observe(OpShareText, err) }()

	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("%w: text content is empty", common.ErrorValidation)
	}

	id, err = s.repomanager.Texts(s.db).Insert(ctx, &models.TextEntry{
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "text shared", "id", id, "length", len(content))
	return id, nil
}

// ShareFile writes content to the blob store under "<unix-seconds>_<name>"
// and then records it in the metadata store. A backslash in the name is
// stored as "_" in the blob name; the original name is kept as sent. When the record cannot be
// inserted, the blob is deleted again before the error is returned.
func (s *SharingService) ShareFile(ctx context.Context, originalName string, content []byte, sizeBytes int64) (id int64, err error) {
	defer func() { s.observe(OpShareFile, err) }()

	if sizeBytes > s.maxUploadBytes {
		return 0, fmt.Errorf("%w: %s is %d bytes, limit is %d", common.ErrorPayloadTooLarge, originalName, sizeBytes, s.maxUploadBytes)
	}
	if originalName == "" {
		return 0, fmt.Errorf("%w: file name is empty", common.ErrorValidation)
	}
	if sizeBytes < 0 || sizeBytes != int64(len(content)) {
		return 0, fmt.Errorf("%w: declared size %d does not match %d bytes received", common.ErrorValidation, sizeBytes, len(content))
	}

	now := s.now().UTC()
	storedName := fmt.Sprintf("%d_%s", now.Unix(), strings.ReplaceAll(originalName, `\`, "_"))
	if err := blobstore.ValidateName(storedName); err != nil {
		return 0, err
	}

	if err := s.blobs.Write(ctx, storedName, content); err != nil {
		return 0, err
	}

	id, err = s.repomanager.Files(s.db).Insert(ctx, &models.FileEntry{
		StoredName:   storedName,
		OriginalName: originalName,
		SizeBytes:    sizeBytes,
		CreatedAt:    now,
	})
	if err != nil {
		s.compensate(ctx, storedName, err)
		return 0, err
	}

	s.metrics.UploadBytes.Add(float64(sizeBytes))
	s.logger.Info(ctx, "file shared", "id", id, "name", originalName, "stored_name", storedName, "size", sizeBytes)
	return id, nil
}

func (s *SharingService) compensate(ctx context.Context, storedName string, cause error) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), storedName); err != nil {
		s.logger.Error(ctx, "orphaned blob left after failed insert",
			"stored_name", storedName, "insert_error", cause, "error", err)
		return
	}
	s.metrics.Compensations.Inc()
	s.logger.Warn(ctx, "blob removed after failed insert", "stored_name", storedName, "error", cause)
}

// ShareFiles shares every upload independently; one failure does not stop the
// rest. Results are in input order.
func (s *SharingService) ShareFiles(ctx context.Context, uploads []Upload) []UploadResult {
	results := make([]UploadResult, 0, len(uploads))
	for _, u := range uploads {
		id, err := s.ShareFile(ctx, u.Name, u.Content, u.SizeBytes)
		results = append(results, UploadResult{Name: u.Name, ID: id, Err: err})
	}
	return results
}

// RemoveText deletes the text entry. A missing id is not an error.
func (s *SharingService) RemoveText(ctx context.Context, id int64) (err error) {
	defer func() { s.observe(OpRemoveText, err) }()

	if err := s.repomanager.Texts(s.db).DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "text removed", "id", id)
	return nil
}

// RemoveFile deletes the blob, then the row, in one transaction. A missing
// id is not an error and a blob that is already gone is ignored.
func (s *SharingService) RemoveFile(ctx context.Context, id int64) (err error) {
	defer func() { s.observe(OpRemoveFile, err) }()

	var removed *models.FileEntry

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)

		entry, err := repo.GetByID(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.blobs.Delete(ctx, entry.StoredName); err != nil {
			return err
		}
		if err := repo.DeleteByID(ctx, id); err != nil {
			return err
		}

		removed = entry
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Delete(id)
	}
	if removed != nil {
		s.logger.Info(ctx, "file removed", "id", id, "stored_name", removed.StoredName)
	}
	return nil
}

// ListAllTexts returns every text entry, newest first.
func (s *SharingService) ListAllTexts(ctx context.Context) ([]*models.TextEntry, error) {
	return s.repomanager.Texts(s.db).GetAll(ctx)
}

// ListAllFiles returns every file entry, newest first.
func (s *SharingService) ListAllFiles(ctx context.Context) ([]*models.FileEntry, error) {
	return s.repomanager.Files(s.db).GetAll(ctx)
}

// GetFile looks up one file entry, using the cache when configured.
func (s *SharingService) GetFile(ctx context.Context, id int64) (*models.FileEntry, error) {
	if s.cache != nil {
		if e, ok := s.cache.Get(id); ok {
			return e, nil
		}
	}

	e, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(id, e)
	}
	return e, nil
}

// Download returns the entry and its full content.
func (s *SharingService) Download(ctx context.Context, id int64) (entry *models.FileEntry, data []byte, err error) {
	defer func() { s.observe(OpDownload, err) }()

	entry, err = s.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err = s.blobs.Read(ctx, entry.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return entry, data, nil
}

// Stats counts the stored entries of both kinds.
func (s *SharingService) Stats(ctx context.Context) (Stats, error) {
	texts, err := s.repomanager.Texts(s.db).Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Texts: texts, Files: files}, nil
}

func (s *SharingService) observe(op string, err error) {
	s.metrics.Observe(op, ResultOf(err))
	if err != nil && errors.Is(err, common.ErrorStorage) {
		s.logger.Error(context.Background(), "operation failed", "operation", op, "error", err)
	}
}

// ResultOf maps an error to the result label of the operations metric.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, common.ErrorValidation):
		return metrics.ResultInvalid
	case errors.Is(err, common.ErrorPayloadTooLarge):
		return metrics.ResultTooBig
	case errors.Is(err, common.ErrorNotFound):
		return metrics.ResultMissing
	default:
		return metrics.ResultError
	}
}
