package http

import (
	"encoding/json"
	"net/http"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/pkg/httpx"
)

// EventHandler serves the singleton event configuration.
type EventHandler struct {
	Roster *service.RosterService
}

// HandleGet returns the event config, bootstrapping the default on the
// first ever read.
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Roster.EventConfig(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewEventConfig(cfg))
}

type setEventRequest struct {
	EventName string `json:"event_name"`
	Theme     string `json:"theme"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Deadline  string `json:"deadline"`
}

// HandlePut fully replaces the event config.
func (h *EventHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req setEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	cfg := domain.EventConfig{
		EventName: req.EventName,
		Theme:     req.Theme,
		Location:  req.Location,
		Date:      req.Date,
		Deadline:  req.Deadline,
	}
	if err := h.Roster.SetEventConfig(r.Context(), cfg); err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, viewEventConfig(cfg))
}
