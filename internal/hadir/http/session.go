package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/pkg/httpx"
)

// SessionHandler mints admin session tokens.
type SessionHandler struct {
	Sessions *service.SessionService
}

type createSessionRequest struct {
	AdminKey string `json:"admin_key"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	session, err := h.Sessions.Create(r.Context(), req.AdminKey)
	switch {
	case errors.Is(err, service.ErrSessionsDisabled):
		httpx.WriteError(w, http.StatusServiceUnavailable, "sessions_disabled",
			"Admin sessions are not configured on this deployment.")
		return
	case errors.Is(err, service.ErrBadAdminKey):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_key", "Invalid admin key")
		return
	case err != nil:
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, session)
}
