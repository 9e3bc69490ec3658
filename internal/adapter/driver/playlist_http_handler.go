package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m3uhub/iptvd/internal/application"
	"github.com/m3uhub/iptvd/internal/playlist"
)

// PlaylistHTTPHandler serves the playlist CRUD surface. All of its routes
// are bearer-token guarded by the router; with storage disabled the handler
// is wired with a nil service and answers 503.
type PlaylistHTTPHandler struct {
	service *application.PlaylistService
}

// NewPlaylistHTTPHandler creates a new playlist CRUD handler. service may be
// nil when no storage backend is enabled.
func NewPlaylistHTTPHandler(service *application.PlaylistService) *PlaylistHTTPHandler {
	return &PlaylistHTTPHandler{service: service}
}

func (h *PlaylistHTTPHandler) storageReady(w http.ResponseWriter) bool {
	if h.service == nil {
		writeError(w, http.StatusServiceUnavailable, "Storage backend is not enabled")
		return false
	}
	return true
}

// Add handles POST /addPlaylist. The playlist is stored under its _id and
// the stored entity is echoed back.
func (h *PlaylistHTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	var pl playlist.Playlist
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if pl.StorageID == "" {
		writeError(w, http.StatusBadRequest, "Playlist is missing _id")
		return
	}

	stored, err := h.service.Add(r.Context(), pl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error adding playlist to the database")
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// addManyResponse echoes the inserted playlists alongside a confirmation.
type addManyResponse struct {
	Message string              `json:"message"`
	Data    []playlist.Playlist `json:"data"`
}

// AddMany handles POST /addManyPlaylists with an array body.
func (h *PlaylistHTTPHandler) AddMany(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	var pls []playlist.Playlist
	if err := json.NewDecoder(r.Body).Decode(&pls); err != nil || len(pls) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid input. Expected an array of playlists.")
		return
	}

	if err := h.service.AddMany(r.Context(), pls); err != nil {
		writeError(w, http.StatusInternalServerError, "Error adding multiple playlists to the database")
		return
	}

	writeJSON(w, http.StatusOK, addManyResponse{
		Message: fmt.Sprintf("%d playlists added successfully.", len(pls)),
		Data:    pls,
	})
}

// Get handles GET /getPlaylist/{id}.
func (h *PlaylistHTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	id := chi.URLParam(r, "id")
	pl, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, playlist.ErrPlaylistNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Playlist with %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Error reading data from the database")
		return
	}

	writeJSON(w, http.StatusOK, pl)
}

// GetAll handles GET /getAllPlaylists.
func (h *PlaylistHTTPHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	pls, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading data from the database")
		return
	}

	writeJSON(w, http.StatusOK, pls)
}

// Update handles PUT /updatePlaylist/{id}. The body is a partial entity;
// its top-level fields overwrite the stored ones, nested structures
// wholesale.
func (h *PlaylistHTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	id := chi.URLParam(r, "id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, playlist.ErrPlaylistNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Playlist with ID %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating playlist in the database")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /deletePlaylist/{id}.
func (h *PlaylistHTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting playlist from the database")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Playlist with %s deleted successfully", id)})
}

// DeleteAll handles DELETE /deleteAllPlaylists.
func (h *PlaylistHTTPHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if !h.storageReady(w) {
		return
	}

	if err := h.service.DeleteAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting all playlists from the database")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "All playlists deleted successfully"})
}
