package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

const (
	previewRunes = 100

	// maxSearchBytes bounds a search term carried through a form.
	maxSearchBytes = 1 << 10

	flashOK  = "ok"
	flashErr = "err"
)

type textView struct {
	ID        int64
	Title     string
	Content   string
	Preview   string
	Truncated bool
	CreatedAt string
}

type fileView struct {
	ID           int64
	OriginalName string
	Size         string
	CreatedAt    string
}

type pageData struct {
	Stats       services.Stats
	Texts       []textView
	Files       []fileView
	HasTexts    bool
	HasFiles    bool
	QueryTexts  string
	QueryFiles  string
	Successes   []string
	Errors      []string
	ShareURL    string
	UploadLimit string
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func newTextView(e *models.TextEntry) textView {
	v := textView{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Preview:   e.Content,
		CreatedAt: formatTime(e.CreatedAt),
	}
	if utf8.RuneCountInString(e.Content) > previewRunes {
		v.Preview = string([]rune(e.Content)[:previewRunes]) + "..."
		v.Truncated = true
	}
	return v
}

func newFileView(e *models.FileEntry) fileView {
	return fileView{
		ID:           e.ID,
		OriginalName: e.OriginalName,
		Size:         services.RenderSize(e.SizeBytes),
		CreatedAt:    formatTime(e.CreatedAt),
	}
}

// Index renders the whole page: statistics, both forms and both listings.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	texts, err := h.svc.ListAllTexts(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	files, err := h.svc.ListAllFiles(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := pageData{
		Stats:       stats,
		HasTexts:    len(texts) > 0,
		HasFiles:    len(files) > 0,
		QueryTexts:  q.Get("qt"),
		QueryFiles:  q.Get("qf"),
		Successes:   q[flashOK],
		Errors:      q[flashErr],
		ShareURL:    h.shareURL,
		UploadLimit: services.RenderSize(h.svc.MaxUploadBytes()),
	}
	for _, e := range services.FilterTexts(texts, data.QueryTexts) {
		data.Texts = append(data.Texts, newTextView(e))
	}
	for _, e := range services.FilterFiles(files, data.QueryFiles) {
		data.Files = append(data.Files, newFileView(e))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error(ctx, "render page", "error", err)
	}
}

// ShareText handles the text form.
func (h *Handler) ShareText(w http.ResponseWriter, r *http.Request) {
	content := r.PostFormValue("content")
	search := searchState(r.PostFormValue)

	id, err := h.svc.ShareText(r.Context(), content)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			h.redirect(w, r, search, nil, []string{"Please enter some text to share."})
			return
		}
		h.logger.Error(r.Context(), "share text", "error", err)
		h.redirect(w, r, search, nil, []string{"Could not share text: " + userMessage(err)})
		return
	}

	h.redirect(w, r, search, []string{fmt.Sprintf("Text #%d shared.", id)}, nil)
}

// DeleteText handles the per-entry delete button of the text listing.
func (h *Handler) DeleteText(w http.ResponseWriter, r *http.Request) {
	search := searchState(r.PostFormValue)

	id, err := parseID(r)
	if err != nil {
		h.redirect(w, r, search, nil, []string{userMessage(err)})
		return
	}
	if err := h.svc.RemoveText(r.Context(), id); err != nil {
		h.logger.Error(r.Context(), "remove text", "id", id, "error", err)
		h.redirect(w, r, search, nil, []string{"Could not delete text: " + userMessage(err)})
		return
	}
	h.redirect(w, r, search, []string{"Text deleted."}, nil)
}

// ShareFiles handles the multi-file form. The body is streamed part by part
// under a request-wide cap; each file is read at most one byte past the
// per-file ceiling, so nothing is spooled to disk. Each file is shared on
// its own and the flash lists every success and every failure.
func (h *Handler) ShareFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.svc.MaxUploadBytes()

	body := &cappedBody{ReadCloser: http.MaxBytesReader(w, r.Body, h.maxRequestBytes)}
	r.Body = body

	mr, err := r.MultipartReader()
	if err != nil {
		h.logger.Warn(ctx, "parse upload", "error", err)
		h.redirect(w, r, nil, nil, []string{"Could not read the upload."})
		return
	}

	search := url.Values{}
	var uploads []services.Upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.uploadReadFailed(w, r, search, body, err)
			return
		}

		switch name := part.FormName(); {
		case name == "qt" || name == "qf":
			v, err := io.ReadAll(io.LimitReader(part, maxSearchBytes))
			if err != nil {
				h.uploadReadFailed(w, r, search, body, err)
				return
			}
			search.Set(name, string(v))

		case name == "files" && part.FileName() != "":
			content, err := io.ReadAll(io.LimitReader(part, limit+1))
			if err != nil {
				h.uploadReadFailed(w, r, search, body, err)
				return
			}
			u := services.Upload{Name: part.FileName(), Content: content, SizeBytes: int64(len(content))}
			// Oversized files are passed on without their bytes so the
			// service rejects them before any I/O.
			if u.SizeBytes > limit {
				u.Content = nil
			}
			uploads = append(uploads, u)
		}
		_ = part.Close()
	}

	if len(uploads) == 0 {
		h.redirect(w, r, search, nil, []string{"Choose at least one file."})
		return
	}

	var oks, errs []string
	for _, res := range h.svc.ShareFiles(ctx, uploads) {
		switch {
		case res.Err == nil:
			oks = append(oks, fmt.Sprintf("%s uploaded.", res.Name))
		case errors.Is(res.Err, common.ErrorPayloadTooLarge):
			errs = append(errs, fmt.Sprintf("%s exceeds the %s limit.", res.Name, services.RenderSize(limit)))
		default:
			if StatusFor(res.Err) == http.StatusInternalServerError {
				h.logger.Error(ctx, "share file", "name", res.Name, "error", res.Err)
			}
			errs = append(errs, fmt.Sprintf("%s: %s", res.Name, userMessage(res.Err)))
		}
	}

	h.redirect(w, r, search, oks, errs)
}

// cappedBody remembers that the request cap was hit, since the multipart
// reader does not always hand the *http.MaxBytesError back unwrapped.
type cappedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.exceeded = true
	}
	return n, err
}

// uploadReadFailed answers an upload whose body could not be read. A body
// over the request cap is refused with 413 and nothing from it is shared.
func (h *Handler) uploadReadFailed(w http.ResponseWriter, r *http.Request, search url.Values, body *cappedBody, err error) {
	if body.exceeded {
		h.logger.Warn(r.Context(), "upload over request limit", "limit", h.maxRequestBytes)
		h.fail(w, r, fmt.Errorf("%w: upload request exceeds %s", common.ErrorPayloadTooLarge, services.RenderSize(h.maxRequestBytes)))
		return
	}
	h.logger.Warn(r.Context(), "read upload", "error", err)
	h.redirect(w, r, search, nil, []string{"Could not read the upload."})
}

// DeleteFile handles the per-entry delete button of the file listing.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	search := searchState(r.PostFormValue)

	id, err := parseID(r)
	if err != nil {
		h.redirect(w, r, search, nil, []string{userMessage(err)})
		return
	}
	if err := h.svc.RemoveFile(r.Context(), id); err != nil {
		h.logger.Error(r.Context(), "remove file", "id", id, "error", err)
		h.redirect(w, r, search, nil, []string{"Could not delete file: " + userMessage(err)})
		return
	}
	h.redirect(w, r, search, []string{"File deleted."}, nil)
}

// Download streams the stored bytes back under the original file name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entry, data, err := h.svc.Download(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": entry.OriginalName})
	if disposition == "" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, raw)
	}
	return id, nil
}

// searchState picks the listing search terms carried by a form.
func searchState(get func(string) string) url.Values {
	v := url.Values{}
	for _, key := range []string{"qt", "qf"} {
		if q := get(key); q != "" {
			v.Set(key, q)
		}
	}
	return v
}

// redirect sends the browser back to the page with the search terms and the
// flash messages in the query string.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, search url.Values, oks, errs []string) {
	v := url.Values{}
	for key, vals := range search {
		if len(vals) > 0 && vals[0] != "" {
			v.Set(key, vals[0])
		}
	}
	for _, m := range oks {
		v.Add(flashOK, m)
	}
	for _, m := range errs {
		v.Add(flashErr, m)
	}

	target := "/"
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail writes a plain-text error page with the mapped status code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, userMessage(err), status)
}
