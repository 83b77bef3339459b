package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/store"
	"github.com/pharmahadir/hadir/pkg/httpx"
)

// InvitationHandler serves the public response flow: a guest follows
// their personal link, sees the invitation, and answers. The guest is
// identified only by the opaque id in the URL.
type InvitationHandler struct {
	Roster   *service.RosterService
	RSVP     *service.RSVPService
	Location *time.Location
}

// HandleGet resolves an invitation link to the guest and event details.
// An unknown id is terminal: there is nothing for the visitor to retry.
func (h *InvitationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guest, err := h.Roster.GetGuest(ctx, r.PathValue("guestID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "invitation_not_found", "Invitation not found.")
			return
		}
		writeDomainError(w, r, err)
		return
	}

	cfg, err := h.Roster.EventConfig(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"guest":           viewGuest(guest, ""),
		"event":           viewEventConfig(cfg),
		"deadline_passed": cfg.DeadlinePassed(time.Now(), h.Location),
	})
}

type rsvpRequest struct {
	// Action is "direct", "representative", or "reset".
	Action string `json:"action"`

	// Status applies to direct responses: "Attending" or "Not Attending".
	Status string `json:"status"`

	Remark         string              `json:"remark"`
	Representative *representativeView `json:"representative"`
}

// HandleSubmit records a guest's response. All three actions are gated by
// the event deadline; past it they fail with deadline_passed and the
// stored status is left untouched.
func (h *InvitationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	guestID := r.PathValue("guestID")

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	var (
		guest domain.Guest
		err   error
	)
	switch req.Action {
	case "direct":
		guest, err = h.RSVP.SubmitDirect(ctx, guestID, domain.RSVPStatus(req.Status), req.Remark)
	case "representative":
		if req.Representative == nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "representative details are required")
			return
		}
		guest, err = h.RSVP.SubmitViaRepresentative(ctx, guestID,
			req.Representative.Name, req.Representative.Designation, req.Remark)
	case "reset":
		guest, err = h.RSVP.ResetToPending(ctx, guestID)
	default:
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			`action must be "direct", "representative", or "reset"`)
		return
	}

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "invitation_not_found", "Invitation not found.")
			return
		}
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, viewGuest(guest, ""))
}
