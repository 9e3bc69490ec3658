package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ProxyHTTPHandler forwards Xtream-Codes and Stalker portal API calls to the
// provider named in the url query parameter and wraps the answer for the
// client. Upstream failures are reported inside a 200 body as
// {message, status} so the client can render them.
type ProxyHTTPHandler struct {
	client *http.Client
}

// NewProxyHTTPHandler creates a new provider API proxy.
func NewProxyHTTPHandler() *ProxyHTTPHandler {
	return &ProxyHTTPHandler{client: &http.Client{}}
}

const xtreamAPIPath = "/player_api.php"

// proxyEnvelope wraps a successful upstream payload.
type proxyEnvelope struct {
	Payload any    `json:"payload"`
	Action  string `json:"action,omitempty"`
}

// proxyFailure mirrors the upstream failure inside a 200 response.
type proxyFailure struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Xtream handles GET /xtream?url=<portal>&action=...: the query parameters
// are forwarded to <portal>/player_api.php.
func (h *ProxyHTTPHandler) Xtream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := query.Get("url") + xtreamAPIPath

	h.forward(w, r, target, query, nil)
}

// Stalker handles GET /stalker?url=<portal>&macAddress=...: the portal is
// called with the device MAC in a cookie and an optional bearer token.
func (h *ProxyHTTPHandler) Stalker(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	headers := http.Header{}
	headers.Set("Cookie", fmt.Sprintf("mac=%s", query.Get("macAddress")))
	if token := query.Get("token"); token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	h.forward(w, r, query.Get("url"), query, headers)
}

func (h *ProxyHTTPHandler) forward(w http.ResponseWriter, r *http.Request, target string, query url.Values, headers http.Header) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeJSON(w, http.StatusOK, proxyFailure{Message: "Error: not found", Status: http.StatusNotFound})
		return
	}
	req.URL.RawQuery = query.Encode()
	for key, values := range headers {
		req.Header[key] = values
	}

	resp, err := h.client.Do(req)
	if err != nil {
		writeJSON(w, http.StatusOK, proxyFailure{Message: "Error: not found", Status: http.StatusNotFound})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		writeJSON(w, http.StatusOK, proxyFailure{Message: resp.Status, Status: resp.StatusCode})
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, proxyFailure{Message: "Error: not found", Status: http.StatusNotFound})
		return
	}

	// Providers answer JSON; anything undecodable is passed through as a
	// string payload.
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = string(body)
	}

	writeJSON(w, http.StatusOK, proxyEnvelope{Payload: payload, Action: query.Get("action")})
}
