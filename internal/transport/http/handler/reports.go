package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authcheck-api/internal/domain"
)

// ReportArchive is the archived-report read surface the dashboard serves from.
type ReportArchive interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ReportsHandler serves archived background-check reports to the admin
// dashboard.
type ReportsHandler struct {
	archive ReportArchive
}

func NewReportsHandler(archive ReportArchive) *ReportsHandler {
	return &ReportsHandler{archive: archive}
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "report archive is not configured")
		return
	}

	guildID := chi.URLParam(r, "guildID")
	reportID := chi.URLParam(r, "reportID")
	key := fmt.Sprintf("reports/%s/%s.json", guildID, reportID)

	body, err := h.archive.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
