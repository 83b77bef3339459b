package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

var (
	// ErrDeadlinePassed is a policy rejection, not a fault: the RSVP
	// window has closed for guest-initiated changes. Admin edits are
	// never gated.
	ErrDeadlinePassed = errors.New("rsvp deadline has passed")
)

// RSVPService governs how a guest's attendance status may change: which
// transitions are legal, when the deadline blocks them, and how the
// representative record stays consistent with the status. It mutates the
// roster only through RosterService.
type RSVPService struct {
	Roster *RosterService

	// Location anchors the end-of-day deadline cutoff. Nil means server
	// local time.
	Location *time.Location
}

// guestGate loads the guest and rejects when the deadline has passed.
// Every guest-initiated transition goes through here; the check reads the
// live config so an admin extending the deadline takes effect immediately.
func (s *RSVPService) guestGate(ctx context.Context, guestID string) (domain.Guest, error) {
	g, err := s.Roster.GetGuest(ctx, guestID)
	if err != nil {
		return domain.Guest{}, err
	}

	cfg, err := s.Roster.EventConfig(ctx)
	if err != nil {
		return domain.Guest{}, err
	}
	if cfg.DeadlinePassed(time.Now(), s.Location) {
		return domain.Guest{}, ErrDeadlinePassed
	}
	return g, nil
}

// SubmitDirect records a guest's own answer: Attending or Not Attending.
// Any previous representative is cleared and respondedAt is stamped.
func (s *RSVPService) SubmitDirect(ctx context.Context, guestID string, status domain.RSVPStatus, remark string) (domain.Guest, error) {
	log := slogx.FromContext(ctx)

	if status != domain.RSVPAttending && status != domain.RSVPNotAttending {
		return domain.Guest{}, errors.Join(ErrValidation,
			errors.New("direct response must be Attending or Not Attending"))
	}

	if _, err := s.guestGate(ctx, guestID); err != nil {
		return domain.Guest{}, err
	}

	now := time.Now().UTC()
	remark = strings.TrimSpace(remark)
	if err := s.Roster.setGuestRSVP(ctx, guestID, status, nil, &remark, &now); err != nil {
		log.Error("failed to record rsvp", "guest_id", guestID, "err", err)
		return domain.Guest{}, err
	}

	log.Info("rsvp recorded", "guest_id", guestID, "status", string(status))
	return s.Roster.GetGuest(ctx, guestID)
}

// SubmitViaRepresentative records attendance through a named stand-in.
// Both representative fields are required; the status becomes
// Attending (Wakil) and respondedAt is stamped.
func (s *RSVPService) SubmitViaRepresentative(ctx context.Context, guestID, repName, repDesignation, remark string) (domain.Guest, error) {
	log := slogx.FromContext(ctx)

	repName = strings.TrimSpace(repName)
	repDesignation = strings.TrimSpace(repDesignation)
	if repName == "" || repDesignation == "" {
		return domain.Guest{}, errors.Join(ErrValidation,
			errors.New("representative name and designation are required"))
	}

	if _, err := s.guestGate(ctx, guestID); err != nil {
		return domain.Guest{}, err
	}

	rep := &domain.Representative{Name: repName, Designation: repDesignation}
	now := time.Now().UTC()
	remark = strings.TrimSpace(remark)
	if err := s.Roster.setGuestRSVP(ctx, guestID, domain.RSVPAttendingViaRepresentative, rep, &remark, &now); err != nil {
		log.Error("failed to record rsvp via representative", "guest_id", guestID, "err", err)
		return domain.Guest{}, err
	}

	log.Info("rsvp recorded", "guest_id", guestID,
		"status", string(domain.RSVPAttendingViaRepresentative), "rep", repName)
	return s.Roster.GetGuest(ctx, guestID)
}

// ResetToPending lets a guest withdraw their response to submit a fresh
// one. The remark and respondedAt history stay; the representative is
// cleared because only Attending (Wakil) may carry one.
func (s *RSVPService) ResetToPending(ctx context.Context, guestID string) (domain.Guest, error) {
	if _, err := s.guestGate(ctx, guestID); err != nil {
		return domain.Guest{}, err
	}

	if err := s.Roster.setGuestRSVP(ctx, guestID, domain.RSVPPending, nil, nil, nil); err != nil {
		slogx.FromContext(ctx).Error("failed to reset rsvp", "guest_id", guestID, "err", err)
		return domain.Guest{}, err
	}

	slogx.FromContext(ctx).Info("rsvp reset to pending", "guest_id", guestID)
	return s.Roster.GetGuest(ctx, guestID)
}

// ValidateStatusChange checks an admin-supplied status and representative
// pair without touching the roster, returning the representative that
// will actually be stored. Attending (Wakil) requires a complete
// representative; every other status drops it. Callers that pair a
// status change with other writes can validate first so nothing is
// written when the status would be rejected.
func (s *RSVPService) ValidateStatusChange(status domain.RSVPStatus, rep *domain.Representative) (*domain.Representative, error) {
	if !status.IsValid() {
		return nil, errors.Join(ErrValidation, errors.New("unknown rsvp status"))
	}

	if status != domain.RSVPAttendingViaRepresentative {
		return nil, nil
	}
	if rep == nil || strings.TrimSpace(rep.Name) == "" || strings.TrimSpace(rep.Designation) == "" {
		return nil, errors.Join(ErrValidation,
			errors.New("representative details are required for Attending (Wakil)"))
	}
	return &domain.Representative{
		Name:        strings.TrimSpace(rep.Name),
		Designation: strings.TrimSpace(rep.Designation),
	}, nil
}

// AdminSetStatus sets any status directly, bypassing the deadline gate.
// respondedAt is left alone; it records the guest's own response, not
// admin bookkeeping.
func (s *RSVPService) AdminSetStatus(ctx context.Context, guestID string, status domain.RSVPStatus, rep *domain.Representative) (domain.Guest, error) {
	log := slogx.FromContext(ctx)

	rep, err := s.ValidateStatusChange(status, rep)
	if err != nil {
		return domain.Guest{}, err
	}

	if err := s.Roster.setGuestRSVP(ctx, guestID, status, rep, nil, nil); err != nil {
		log.Error("failed to set rsvp status", "guest_id", guestID, "err", err)
		return domain.Guest{}, err
	}

	log.Debug("rsvp status set by admin", "guest_id", guestID, "status", string(status))
	return s.Roster.GetGuest(ctx, guestID)
}
