package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

type textJSON struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type fileJSON struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	Size         string    `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "api request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorJSON{Error: userMessage(err)})
}

// APIListTexts returns the texts matching ?q=, newest first.
func (h *Handler) APIListTexts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAllTexts(r.Context())
	if err != nil {
		h.writeAPIError(w, r, err)
		return
	}

	out := make([]textJSON, 0, len(list))
	for _, e := range services.FilterTexts(list, r.URL.Query().Get("q")) {
		out = append(out, toTextJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// APIListFiles returns the files matching ?q=, newest first.
func (h *Handler) APIListFiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAllFiles(r.Context())
	if err != nil {
		h.writeAPIError(w, r, err)
		return
	}

	out := make([]fileJSON, 0, len(list))
	for _, e := range services.FilterFiles(list, r.URL.Query().Get("q")) {
		out = append(out, toFileJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) APIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func toTextJSON(e *models.TextEntry) textJSON {
	return textJSON{ID: e.ID, Title: e.Title, Content: e.Content, CreatedAt: e.CreatedAt}
}

func toFileJSON(e *models.FileEntry) fileJSON {
	return fileJSON{
		ID:           e.ID,
		OriginalName: e.OriginalName,
		SizeBytes:    e.SizeBytes,
		Size:         services.RenderSize(e.SizeBytes),
		CreatedAt:    e.CreatedAt,
	}
}
