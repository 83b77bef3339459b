package domain

import "time"

// RSVPStatus is the guest's attendance answer. The string values double as
// the labels used in the tabular import/export schema, so they must not be
// renamed without migrating exported files.
type RSVPStatus string

const (
	RSVPPending                    RSVPStatus = "Pending"
	RSVPAttending                  RSVPStatus = "Attending"
	RSVPAttendingViaRepresentative RSVPStatus = "Attending (Wakil)"
	RSVPNotAttending               RSVPStatus = "Not Attending"
)

// AllRSVPStatuses lists every valid status, in the order the admin UI
// presents them.
func AllRSVPStatuses() []RSVPStatus {
	return []RSVPStatus{
		RSVPPending,
		RSVPAttending,
		RSVPAttendingViaRepresentative,
		RSVPNotAttending,
	}
}

// ParseRSVPStatus maps a free-form cell value onto the status enum.
// Unknown values coerce to Pending rather than failing: bulk imports must
// not abort on a mistyped status, and the admin can correct it afterwards.
func ParseRSVPStatus(s string) RSVPStatus {
	switch RSVPStatus(s) {
	case RSVPAttending, RSVPAttendingViaRepresentative, RSVPNotAttending, RSVPPending:
		return RSVPStatus(s)
	default:
		return RSVPPending
	}
}

// IsValid reports whether the status is one of the four known variants.
func (s RSVPStatus) IsValid() bool {
	switch s {
	case RSVPPending, RSVPAttending, RSVPAttendingViaRepresentative, RSVPNotAttending:
		return true
	}
	return false
}

// Representative is a named stand-in ("wakil") attending on a guest's
// behalf. A representative is only ever stored complete: both fields
// non-empty, and only while the guest's status is Attending (Wakil).
type Representative struct {
	Name        string
	Designation string
}

// Guest is one invitee on the roster.
//
// Invariant: Representative != nil exactly when RSVPStatus is
// RSVPAttendingViaRepresentative. Every write path goes through the
// services, which enforce this before hitting the store.
type Guest struct {
	ID             string
	Name           string
	Organization   string
	Email          string
	Phone          string
	Remark         string
	InvitationSent bool
	RSVPStatus     RSVPStatus
	Representative *Representative

	CreatedAt   time.Time
	RespondedAt *time.Time
	UpdatedAt   time.Time
}

// GuestPatch carries a partial update for the profile fields an admin may
// edit directly. Nil pointers mean "leave unchanged". RSVP status and
// representative changes are excluded on purpose; they move together
// through the RSVP service so the representative invariant cannot be
// broken by a stray field update.
type GuestPatch struct {
	Name           *string
	Organization   *string
	Email          *string
	Phone          *string
	Remark         *string
	InvitationSent *bool
}

// Empty reports whether the patch would change nothing.
func (p GuestPatch) Empty() bool {
	return p.Name == nil && p.Organization == nil && p.Email == nil &&
		p.Phone == nil && p.Remark == nil && p.InvitationSent == nil
}
