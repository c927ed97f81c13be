package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lanshare/internal/blobstore"
	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/config"
	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/metrics"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

type testEnv struct {
	router http.Handler
	svc    *services.SharingService
	db     *sql.DB
}

func newTestEnv(t *testing.T, maxUpload int64) *testEnv {
	t.Helper()
	return newTestEnvWith(t, func(c *config.Config) {
		if maxUpload > 0 {
			c.MaxUploadBytes = maxUpload
		}
	})
}

func newTestEnvWith(t *testing.T, configure func(*config.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, rm, err := repomanager.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	blobs := blobstore.NewLocalStore(filepath.Join(t.TempDir(), "shared_files"))
	require.NoError(t, blobs.EnsureReady(ctx))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	configure(cfg)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := services.NewSharingService(db, rm, blobs, cfg, logging.Nop(), m)

	h, err := NewHandler(svc, logging.Nop(), "http://192.168.1.20:8501", cfg.RequestLimit())
	require.NoError(t, err)

	return &testEnv{router: NewRouter(h, logging.Nop(), m, reg), svc: svc, db: db}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) upload(t *testing.T, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	return e.uploadWith(t, nil, files)
}

// uploadWith posts fields first, then files, the order a browser uses for
// the page's upload form.
func (e *testEnv) uploadWith(t *testing.T, fields url.Values, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(t, req)
}

func redirectQuery(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	return loc.Query()
}

func flashes(t *testing.T, rec *httptest.ResponseRecorder) (oks, errs []string) {
	t.Helper()
	q := redirectQuery(t, rec)
	return q[flashOK], q[flashErr]
}

func TestIndex_Empty(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.get(t, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Texts: 0")
	assert.Contains(t, body, "Files: 0")
	assert.Contains(t, body, "No shared texts yet.")
	assert.Contains(t, body, "No shared files yet.")
	assert.NotContains(t, body, `type="search"`)
	assert.Contains(t, body, "http://192.168.1.20:8501")
	assert.Contains(t, body, "Up to 100.0 MB per file.")
}

func TestShareText_ShowsOnPage(t *testing.T) {
	env := newTestEnv(t, 0)

	oks, errs := flashes(t, env.postForm(t, "/texts", url.Values{"content": {"  hello <world>  "}}))
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Text #1 shared."}, oks)

	rec := env.get(t, "/?ok="+url.QueryEscape(oks[0]))
	body := rec.Body.String()
	assert.Contains(t, body, "Text #1 shared.")
	assert.Contains(t, body, "hello &lt;world&gt;")
	assert.Contains(t, body, "Texts: 1")
	assert.Contains(t, body, `action="/texts/1/delete"`)
}

func TestShareText_EmptyIsRejected(t *testing.T) {
	env := newTestEnv(t, 0)

	oks, errs := flashes(t, env.postForm(t, "/texts", url.Values{"content": {"   \n "}}))
	assert.Empty(t, oks)
	assert.Equal(t, []string{"Please enter some text to share."}, errs)

	list, err := env.svc.ListAllTexts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIndex_LongTextIsCollapsed(t *testing.T) {
	env := newTestEnv(t, 0)
	long := strings.Repeat("a", 100) + "TAIL"
	_, err := env.svc.ShareText(context.Background(), long)
	require.NoError(t, err)
	_, err = env.svc.ShareText(context.Background(), "short one")
	require.NoError(t, err)

	body := env.get(t, "/").Body.String()

	assert.Contains(t, body, "<details>")
	assert.Contains(t, body, strings.Repeat("a", 100)+"...")
	assert.Contains(t, body, long)
	assert.Equal(t, 1, strings.Count(body, "<details>"))
}

func TestIndex_SearchFiltersEachListing(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	_, err := env.svc.ShareText(ctx, "Meeting notes")
	require.NoError(t, err)
	_, err = env.svc.ShareText(ctx, "grocery list")
	require.NoError(t, err)
	_, err = env.svc.ShareFile(ctx, "Report.PDF", []byte("x"), 1)
	require.NoError(t, err)

	body := env.get(t, "/?qt=MEETING&qf=zzz").Body.String()

	assert.Contains(t, body, "Meeting notes")
	assert.NotContains(t, body, "grocery list")
	assert.NotContains(t, body, "Report.PDF</a>")
	assert.Contains(t, body, "No file matches the search.")
	assert.Contains(t, body, `name="qt" value="MEETING"`)
}

func TestShareFiles_UploadAndDownload(t *testing.T) {
	env := newTestEnv(t, 0)

	oks, errs := flashes(t, env.upload(t, map[string][]byte{
		"notes.txt": []byte("plain"),
		"报告.bin":    {0x00, 0xFF, 0x10},
	}))
	assert.Empty(t, errs)
	assert.ElementsMatch(t, []string{"notes.txt uploaded.", "报告.bin uploaded."}, oks)

	list, err := env.svc.ListAllFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	for _, f := range list {
		rec := env.get(t, fmt.Sprintf("/files/%d/download", f.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

		kind, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
		require.NoError(t, err)
		assert.Equal(t, "attachment", kind)
		assert.Equal(t, f.OriginalName, params["filename"])

		_, want, err := env.svc.Download(context.Background(), f.ID)
		require.NoError(t, err)
		assert.Equal(t, want, rec.Body.Bytes())
		assert.Equal(t, fmt.Sprint(len(want)), rec.Header().Get("Content-Length"))
	}

	body := env.get(t, "/").Body.String()
	assert.Contains(t, body, "5.0 B")
	assert.Contains(t, body, "Files: 2")
}

func TestShareFiles_OversizedIsReportedOthersKept(t *testing.T) {
	env := newTestEnvWith(t, func(c *config.Config) {
		c.MaxUploadBytes = 10
		c.MaxRequestBytes = 64 << 10
	})

	oks, errs := flashes(t, env.upload(t, map[string][]byte{
		"big.bin":   bytes.Repeat([]byte{1}, 11),
		"small.txt": []byte("ok"),
	}))

	assert.Equal(t, []string{"small.txt uploaded."}, oks)
	assert.Equal(t, []string{"big.bin exceeds the 10.0 B limit."}, errs)

	list, err := env.svc.ListAllFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "small.txt", list[0].OriginalName)
}

func TestShareFiles_NoFiles(t *testing.T) {
	env := newTestEnv(t, 0)

	oks, errs := flashes(t, env.upload(t, nil))

	assert.Empty(t, oks)
	assert.Equal(t, []string{"Choose at least one file."}, errs)
}

func TestShareFiles_NotMultipart(t *testing.T) {
	env := newTestEnv(t, 0)

	_, errs := flashes(t, env.postForm(t, "/files", url.Values{"x": {"y"}}))

	assert.Equal(t, []string{"Could not read the upload."}, errs)
}

func TestDelete_TextAndFile(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	textID, err := env.svc.ShareText(ctx, "bye")
	require.NoError(t, err)
	fileID, err := env.svc.ShareFile(ctx, "a.txt", []byte("a"), 1)
	require.NoError(t, err)

	oks, _ := flashes(t, env.postForm(t, fmt.Sprintf("/texts/%d/delete", textID), nil))
	assert.Equal(t, []string{"Text deleted."}, oks)
	oks, _ = flashes(t, env.postForm(t, fmt.Sprintf("/files/%d/delete", fileID), nil))
	assert.Equal(t, []string{"File deleted."}, oks)

	stats, err := env.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.Stats{}, stats)

	assert.Equal(t, http.StatusNotFound, env.get(t, fmt.Sprintf("/files/%d/download", fileID)).Code)

	// deleting again is harmless
	oks, _ = flashes(t, env.postForm(t, fmt.Sprintf("/files/%d/delete", fileID), nil))
	assert.Equal(t, []string{"File deleted."}, oks)
}

func TestDelete_BadID(t *testing.T) {
	env := newTestEnv(t, 0)

	_, errs := flashes(t, env.postForm(t, "/texts/abc/delete", nil))

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "invalid id")
}

func TestDownload_Errors(t *testing.T) {
	env := newTestEnv(t, 0)

	assert.Equal(t, http.StatusNotFound, env.get(t, "/files/42/download").Code)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/files/nope/download").Code)
	assert.Equal(t, http.StatusBadRequest, env.get(t, "/files/0/download").Code)
}

func TestAPI_ListingsAndStats(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	_, err := env.svc.ShareText(ctx, "Alpha")
	require.NoError(t, err)
	_, err = env.svc.ShareText(ctx, "beta")
	require.NoError(t, err)
	_, err = env.svc.ShareFile(ctx, "photo.JPG", make([]byte, 1536), 1536)
	require.NoError(t, err)

	rec := env.get(t, "/api/texts?q=ALP")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var texts []textJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &texts))
	require.Len(t, texts, 1)
	assert.Equal(t, "Alpha", texts[0].Content)
	assert.Equal(t, "Alpha", texts[0].Title)

	rec = env.get(t, "/api/files?q=jpg")
	var files []fileJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "photo.JPG", files[0].OriginalName)
	assert.Equal(t, int64(1536), files[0].SizeBytes)
	assert.Equal(t, "1.5 KB", files[0].Size)

	rec = env.get(t, "/api/files?q=nothing")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.get(t, "/api/stats")
	assert.JSONEq(t, `{"texts":2,"files":1}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.get(t, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.get(t, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, env.db.Close())
	rec = env.get(t, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, 0)
	env.get(t, "/")
	env.get(t, "/files/7/download")
	env.get(t, "/no/such/route")

	rec := env.get(t, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lanshare_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, `lanshare_http_requests_total{method="GET",route="/files/{id}/download",status="404"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.Contains(t, body, `lanshare_operations_total{operation="download",result="not_found"} 1`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", fmt.Errorf("%w: x", common.ErrorValidation), http.StatusBadRequest},
		{"too large", fmt.Errorf("%w: x", common.ErrorPayloadTooLarge), http.StatusRequestEntityTooLarge},
		{"not found", fmt.Errorf("%w: x", common.ErrorNotFound), http.StatusNotFound},
		{"storage", fmt.Errorf("%w: x", common.ErrorStorage), http.StatusInternalServerError},
		{"other", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

// brokenSharing fails every call with a storage error.
type brokenSharing struct {
	Sharing
}

var errDiskGone = fmt.Errorf("%w: disk gone", common.ErrorStorage)

func (brokenSharing) Stats(context.Context) (services.Stats, error) { return services.Stats{}, errDiskGone }
func (brokenSharing) ListAllFiles(context.Context) ([]*models.FileEntry, error) {
	return nil, errDiskGone
}
func (brokenSharing) ShareText(context.Context, string) (int64, error) { return 0, errDiskGone }

func TestStorageFailuresAreNotLeaked(t *testing.T) {
	h, err := NewHandler(brokenSharing{}, logging.Nop(), "", 1<<20)
	require.NoError(t, err)
	env := &testEnv{router: NewRouter(h, logging.Nop(), metrics.New(prometheus.NewRegistry()), prometheus.NewRegistry())}

	rec := env.get(t, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk gone")

	rec = env.get(t, "/api/files")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"storage error, please try again"}`, rec.Body.String())

	_, errs := flashes(t, env.postForm(t, "/texts", url.Values{"content": {"x"}}))
	assert.Equal(t, []string{"Could not share text: storage error, please try again"}, errs)
}

// countingReader counts the bytes the handler pulled from the body.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestShareFiles_BodyOverRequestCapIsRefused(t *testing.T) {
	const requestCap = 4 << 10
	env := newTestEnvWith(t, func(c *config.Config) {
		c.MaxUploadBytes = 10
		c.MaxRequestBytes = requestCap
	})
	spool := t.TempDir()
	t.Setenv("TMPDIR", spool)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "huge.bin")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{7}, 1<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	total := int64(body.Len())

	counter := &countingReader{r: &body}
	req := httptest.NewRequest(http.MethodPost, "/files", counter)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := env.do(t, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.LessOrEqual(t, counter.n, int64(requestCap+1))
	assert.Less(t, counter.n, total)

	spooled, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, spooled, "nothing may be written to the temp dir")

	list, err := env.svc.ListAllFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShareFiles_OversizedPartIsNotBuffered(t *testing.T) {
	env := newTestEnvWith(t, func(c *config.Config) {
		c.MaxUploadBytes = 10
		c.MaxRequestBytes = 1 << 20
	})
	spool := t.TempDir()
	t.Setenv("TMPDIR", spool)

	oks, errs := flashes(t, env.upload(t, map[string][]byte{
		"big.bin": bytes.Repeat([]byte{1}, 512<<10),
	}))

	assert.Empty(t, oks)
	assert.Equal(t, []string{"big.bin exceeds the 10.0 B limit."}, errs)

	spooled, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, spooled)
}

func TestMutations_KeepSearchTerms(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	textID, err := env.svc.ShareText(ctx, "keep me")
	require.NoError(t, err)
	fileID, err := env.svc.ShareFile(ctx, "keep.txt", []byte("k"), 1)
	require.NoError(t, err)

	search := url.Values{"qt": {"Meeting notes"}, "qf": {"pdf"}}
	form := func(extra url.Values) url.Values {
		v := url.Values{"qt": search["qt"], "qf": search["qf"]}
		for k, vals := range extra {
			v[k] = vals
		}
		return v
	}

	cases := map[string]*httptest.ResponseRecorder{
		"share text":  env.postForm(t, "/texts", form(url.Values{"content": {"new"}})),
		"empty text":  env.postForm(t, "/texts", form(url.Values{"content": {" "}})),
		"delete text": env.postForm(t, fmt.Sprintf("/texts/%d/delete", textID), form(nil)),
		"delete file": env.postForm(t, fmt.Sprintf("/files/%d/delete", fileID), form(nil)),
		"bad id":      env.postForm(t, "/files/nope/delete", form(nil)),
		"upload":      env.uploadWith(t, search, map[string][]byte{"a.txt": []byte("a")}),
		"no files":    env.uploadWith(t, search, nil),
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			q := redirectQuery(t, rec)
			assert.Equal(t, "Meeting notes", q.Get("qt"))
			assert.Equal(t, "pdf", q.Get("qf"))
		})
	}

	t.Run("empty terms are left out", func(t *testing.T) {
		q := redirectQuery(t, env.postForm(t, "/texts", url.Values{"content": {"x"}, "qt": {""}}))
		_, hasQT := q["qt"]
		_, hasQF := q["qf"]
		assert.False(t, hasQT)
		assert.False(t, hasQF)
	})

	t.Run("page forms carry the terms", func(t *testing.T) {
		body := env.get(t, "/?qt=keep&qf=keep").Body.String()
		assert.Contains(t, body, `<input type="hidden" name="qt" value="keep"><input type="hidden" name="qf" value="keep">`)
	})
}

func TestRouter_PanicIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(&logs, "info", "json")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h, err := NewHandler(brokenSharing{}, logging.Nop(), "", 1<<20)
	require.NoError(t, err)

	router, ok := NewRouter(h, logger, m, reg).(chi.Router)
	require.True(t, ok)
	router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), `"path":"/boom"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/boom", "500")))
}
