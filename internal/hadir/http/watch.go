package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/pkg/httpx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

// WatchHandler streams live roster and event snapshots over Server-Sent
// Events. Each event carries a full snapshot, so a client that misses
// intermediate updates still converges on the current state.
type WatchHandler struct {
	Roster        *service.RosterService
	PublicBaseURL string
}

// HandleGuests streams the roster. The current snapshot is sent
// immediately; subsequent events follow each mutation.
func (h *WatchHandler) HandleGuests(w http.ResponseWriter, r *http.Request) {
	ch, cancel, err := h.Roster.SubscribeGuests(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	defer cancel()

	flusher, ok := beginStream(w)
	if !ok {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case guests := <-ch:
			if err := writeEvent(w, flusher, "roster", map[string]any{
				"guests": viewGuests(guests, h.PublicBaseURL),
				"count":  len(guests),
			}); err != nil {
				slogx.FromContext(r.Context()).Debug("roster watch closed", "err", err)
				return
			}
		}
	}
}

// HandleEvent streams the event config.
func (h *WatchHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	ch, cancel, err := h.Roster.SubscribeEventConfig(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	defer cancel()

	flusher, ok := beginStream(w)
	if !ok {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case cfg := <-ch:
			if err := writeEvent(w, flusher, "event", viewEventConfig(cfg)); err != nil {
				slogx.FromContext(r.Context()).Debug("event watch closed", "err", err)
				return
			}
		}
	}
}

func beginStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"streaming is not supported by this server configuration")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return flusher, true
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
