package driver

import (
	"errors"
	"net/http"

	"github.com/m3uhub/iptvd/internal/application"
	"github.com/m3uhub/iptvd/internal/port/driven"
)

// IngestHTTPHandler exposes the ingestion pipeline: fetch-and-parse for
// playlists and EPG files. The results are returned to the client, not
// persisted.
type IngestHTTPHandler struct {
	service *application.IngestService
}

// NewIngestHTTPHandler creates a new ingestion handler.
func NewIngestHTTPHandler(service *application.IngestService) *IngestHTTPHandler {
	return &IngestHTTPHandler{service: service}
}

// ParsePlaylist handles GET /parse?url=<m3u-url>.
func (h *IngestHTTPHandler) ParsePlaylist(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "Missing url")
		return
	}

	pl, err := h.service.ImportPlaylist(r.Context(), url)
	if err != nil {
		writeUpstreamFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pl)
}

// ParseGuide handles GET /parse-xml?url=<epg-url>.
func (h *IngestHTTPHandler) ParseGuide(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "Missing url")
		return
	}

	guide, err := h.service.FetchGuide(r.Context(), url)
	if err != nil {
		writeUpstreamFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, guide)
}

// writeUpstreamFailure maps a pipeline error to a {status, message}
// response: the upstream status when the remote reported one, a generic 500
// for everything else (network failures, decode and parse errors).
func writeUpstreamFailure(w http.ResponseWriter, err error) {
	var upstream *driven.UpstreamError
	if errors.As(err, &upstream) {
		writeJSON(w, upstream.StatusCode, statusResponse{
			Status:  upstream.StatusCode,
			Message: upstream.Status,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, statusResponse{
		Status:  http.StatusInternalServerError,
		Message: "Error, something went wrong",
	})
}
