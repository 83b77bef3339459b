package http

import (
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
)

type representativeView struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
}

type guestView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Organization   string              `json:"organization"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Remark         string              `json:"remark"`
	InvitationSent bool                `json:"invitation_sent"`
	RSVPStatus     string              `json:"rsvp_status"`
	Representative *representativeView `json:"representative,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	RespondedAt    *time.Time          `json:"responded_at,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at"`
	RSVPURL        string              `json:"rsvp_url,omitempty"`
}

type eventConfigView struct {
	EventName string `json:"event_name"`
	Theme     string `json:"theme"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Deadline  string `json:"deadline,omitempty"`
}

func viewGuest(g domain.Guest, publicBaseURL string) guestView {
	v := guestView{
		ID:             g.ID,
		Name:           g.Name,
		Organization:   g.Organization,
		Email:          g.Email,
		Phone:          g.Phone,
		Remark:         g.Remark,
		InvitationSent: g.InvitationSent,
		RSVPStatus:     string(g.RSVPStatus),
		CreatedAt:      g.CreatedAt,
		RespondedAt:    g.RespondedAt,
		UpdatedAt:      g.UpdatedAt,
	}
	if g.Representative != nil {
		v.Representative = &representativeView{
			Name:        g.Representative.Name,
			Designation: g.Representative.Designation,
		}
	}
	if publicBaseURL != "" {
		v.RSVPURL = publicBaseURL + "/rsvp?guestId=" + g.ID
	}
	return v
}

func viewGuests(guests []domain.Guest, publicBaseURL string) []guestView {
	views := make([]guestView, 0, len(guests))
	for _, g := range guests {
		views = append(views, viewGuest(g, publicBaseURL))
	}
	return views
}

func viewEventConfig(cfg domain.EventConfig) eventConfigView {
	return eventConfigView{
		EventName: cfg.EventName,
		Theme:     cfg.Theme,
		Location:  cfg.Location,
		Date:      cfg.Date,
		Deadline:  cfg.Deadline,
	}
}
