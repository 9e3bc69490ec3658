package driver

import "net/http"

// HealthHTTPHandler answers the liveness probe and the connection status
// check used by clients to decide whether server-side storage is available.
type HealthHTTPHandler struct {
	dbEnabled bool
}

// NewHealthHTTPHandler creates a health handler. dbEnabled reports whether a
// storage backend was configured at startup.
func NewHealthHTTPHandler(dbEnabled bool) *HealthHTTPHandler {
	return &HealthHTTPHandler{dbEnabled: dbEnabled}
}

// connectionStatusResponse reports service health and storage availability.
type connectionStatusResponse struct {
	Status    string `json:"status"`
	DBEnabled bool   `json:"dbEnabled"`
}

// Root handles GET /.
func (h *HealthHTTPHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Service is healthy"))
}

// ConnectionStatus handles GET /connectionStatus.
func (h *HealthHTTPHandler) ConnectionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, connectionStatusResponse{
		Status:    "OK",
		DBEnabled: h.dbEnabled,
	})
}
