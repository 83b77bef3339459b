package http

import (
	"encoding/json"
	"net/http"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/pkg/httpx"
)

// GuestsHandler serves the admin roster CRUD endpoints.
type GuestsHandler struct {
	Roster        *service.RosterService
	RSVP          *service.RSVPService
	PublicBaseURL string
}

type createGuestRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Remark       string `json:"remark"`
}

// HandleCreate adds a single guest to the roster.
func (h *GuestsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	guest, err := h.Roster.CreateGuest(r.Context(), service.CreateGuestInput{
		Name:         req.Name,
		Organization: req.Organization,
		Email:        req.Email,
		Phone:        req.Phone,
		Remark:       req.Remark,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, viewGuest(guest, h.PublicBaseURL))
}

// HandleList returns the roster, optionally narrowed by ?status= and ?q=.
func (h *GuestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := service.RosterFilter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}

	guests, err := h.Roster.ListGuests(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"guests": viewGuests(guests, h.PublicBaseURL),
		"count":  len(guests),
	})
}

// HandleGet returns a single guest.
func (h *GuestsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	guest, err := h.Roster.GetGuest(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, viewGuest(guest, h.PublicBaseURL))
}

type patchGuestRequest struct {
	Name           *string `json:"name"`
	Organization   *string `json:"organization"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Remark         *string `json:"remark"`
	InvitationSent *bool   `json:"invitation_sent"`

	// RSVP status changes ride along with the profile patch but are
	// applied through the state machine, which owns the representative
	// invariant.
	RSVPStatus     *string             `json:"rsvp_status"`
	Representative *representativeView `json:"representative"`
}

// HandlePatch applies a partial update. Fields absent from the body keep
// their stored values; concurrent edits resolve last-writer-wins.
func (h *GuestsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	var rep *domain.Representative
	if req.Representative != nil {
		rep = &domain.Representative{
			Name:        req.Representative.Name,
			Designation: req.Representative.Designation,
		}
	}

	// Vet the status change before the profile write so a rejected status
	// never leaves a half-applied patch behind.
	if req.RSVPStatus != nil {
		if _, err := h.RSVP.ValidateStatusChange(domain.RSVPStatus(*req.RSVPStatus), rep); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	guest, err := h.Roster.UpdateGuest(r.Context(), id, domain.GuestPatch{
		Name:           req.Name,
		Organization:   req.Organization,
		Email:          req.Email,
		Phone:          req.Phone,
		Remark:         req.Remark,
		InvitationSent: req.InvitationSent,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if req.RSVPStatus != nil {
		guest, err = h.RSVP.AdminSetStatus(r.Context(), id, domain.RSVPStatus(*req.RSVPStatus), rep)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, viewGuest(guest, h.PublicBaseURL))
}

// HandleDelete removes a guest. Deletion is immediate and unrecoverable;
// deleting an absent guest succeeds quietly.
func (h *GuestsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Roster.DeleteGuest(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	Roster *service.RosterService
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Roster.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
