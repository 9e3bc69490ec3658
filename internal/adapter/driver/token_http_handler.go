package driver

import "net/http"

// TokenHTTPHandler issues bearer tokens. The route it serves is gated by
// TokenAuthority.RequireAPIKey.
type TokenHTTPHandler struct {
	authority *TokenAuthority
}

// NewTokenHTTPHandler creates a new token issuance handler.
func NewTokenHTTPHandler(authority *TokenAuthority) *TokenHTTPHandler {
	return &TokenHTTPHandler{authority: authority}
}

// tokenResponse carries the issued token and its expiry in unix seconds.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Issue handles POST /token.
func (h *TokenHTTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	token, expiresIn, err := h.authority.GenerateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error: Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresIn: expiresIn})
}
