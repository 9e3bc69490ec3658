package driver

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body for {error} failures.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the JSON body for auth failures and confirmations.
type messageResponse struct {
	Message string `json:"message"`
}

// statusResponse reports an upstream failure with its status, so callers can
// distinguish upstream causes from local ones.
type statusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON {error} response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
