package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/store"
	"github.com/pharmahadir/hadir/internal/hadir/watch"
	"github.com/pharmahadir/hadir/pkg/idx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

var (
	// ErrValidation reports input rejected before it ever reached storage
	// (e.g. a guest without a name).
	ErrValidation = errors.New("validation failed")
)

// RosterService owns the guest collection and the singleton event config.
// Every other component reads and mutates roster state through it, never
// against the store directly, so there is exactly one place that refreshes
// the live snapshots subscribers watch.
type RosterService struct {
	store store.Store

	// mu serializes every mutate-then-publish section (and the snapshot
	// read inside Subscribe*), so snapshots reach the hubs in commit
	// order and a new subscriber never starts behind a publish it missed.
	mu sync.Mutex

	guestHub *watch.Hub[[]domain.Guest]
	eventHub *watch.Hub[domain.EventConfig]
}

func NewRosterService(st store.Store) *RosterService {
	return &RosterService{
		store:    st,
		guestHub: watch.NewHub[[]domain.Guest](),
		eventHub: watch.NewHub[domain.EventConfig](),
	}
}

// CreateGuestInput carries the admin-supplied fields for a new guest.
type CreateGuestInput struct {
	Name         string
	Organization string
	Email        string
	Phone        string
	Remark       string
}

// CreateGuest validates and persists a new guest. A guest without a name
// is invalid and is rejected before anything is written.
func (s *RosterService) CreateGuest(ctx context.Context, in CreateGuestInput) (domain.Guest, error) {
	log := slogx.FromContext(ctx)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Guest{}, errors.Join(ErrValidation, errors.New("guest name is required"))
	}

	now := time.Now().UTC()
	g := domain.Guest{
		ID:             idx.New().String(),
		Name:           name,
		Organization:   strings.TrimSpace(in.Organization),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Remark:         strings.TrimSpace(in.Remark),
		InvitationSent: false,
		RSVPStatus:     domain.RSVPPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Guests().CreateGuest(ctx, g); err != nil {
		log.Error("failed to create guest", "err", err)
		return domain.Guest{}, err
	}

	log.Debug("guest created", "guest_id", g.ID)
	s.publishGuests(ctx)
	return g, nil
}

// GetGuest returns a single guest by id.
func (s *RosterService) GetGuest(ctx context.Context, id string) (domain.Guest, error) {
	return s.store.Guests().GetGuest(ctx, id)
}

// RosterFilter narrows a listing. The zero value matches everything.
type RosterFilter struct {
	// Status keeps only guests with this exact status. Empty or "All"
	// matches every status.
	Status string
	// Query keeps guests whose name contains it, case-insensitively.
	Query string
}

func (f RosterFilter) matches(g domain.Guest) bool {
	if f.Status != "" && f.Status != "All" && string(g.RSVPStatus) != f.Status {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// ListGuests returns the roster, name-ordered, narrowed by the filter.
func (s *RosterService) ListGuests(ctx context.Context, filter RosterFilter) ([]domain.Guest, error) {
	guests, err := s.store.Guests().ListGuests(ctx)
	if err != nil {
		return nil, err
	}

	filtered := guests[:0]
	for _, g := range guests {
		if filter.matches(g) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// UpdateGuest applies a partial merge of profile fields. Setting the name
// to empty is rejected; other fields may be cleared freely. Conflicting
// concurrent updates resolve last-writer-wins at the field level.
func (s *RosterService) UpdateGuest(ctx context.Context, id string, patch domain.GuestPatch) (domain.Guest, error) {
	log := slogx.FromContext(ctx)

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return domain.Guest{}, errors.Join(ErrValidation, errors.New("guest name cannot be cleared"))
		}
		patch.Name = &trimmed
	}

	if !patch.Empty() {
		s.mu.Lock()
		if err := s.store.Guests().UpdateGuestDetails(ctx, id, patch); err != nil {
			s.mu.Unlock()
			if !errors.Is(err, store.ErrNotFound) {
				log.Error("failed to update guest", "guest_id", id, "err", err)
			}
			return domain.Guest{}, err
		}
		s.publishGuests(ctx)
		s.mu.Unlock()
	}

	return s.store.Guests().GetGuest(ctx, id)
}

// DeleteGuest removes a guest immediately and unrecoverably. Deleting an
// absent id is not an error.
func (s *RosterService) DeleteGuest(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Guests().DeleteGuest(ctx, id); err != nil {
		log.Error("failed to delete guest", "guest_id", id, "err", err)
		return err
	}

	log.Debug("guest deleted", "guest_id", id)
	s.publishGuests(ctx)
	return nil
}

// RosterStats summarises the roster for the admin dashboard.
type RosterStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Attending      int `json:"attending"`
	AttendingWakil int `json:"attending_wakil"`
	NotAttending   int `json:"not_attending"`
	InvitesSent    int `json:"invites_sent"`
}

// Stats counts guests per status and how many invitations went out.
func (s *RosterService) Stats(ctx context.Context) (RosterStats, error) {
	guests, err := s.store.Guests().ListGuests(ctx)
	if err != nil {
		return RosterStats{}, err
	}

	var st RosterStats
	st.Total = len(guests)
	for _, g := range guests {
		switch g.RSVPStatus {
		case domain.RSVPAttending:
			st.Attending++
		case domain.RSVPAttendingViaRepresentative:
			st.AttendingWakil++
		case domain.RSVPNotAttending:
			st.NotAttending++
		default:
			st.Pending++
		}
		if g.InvitationSent {
			st.InvitesSent++
		}
	}
	return st, nil
}

// EventConfig returns the singleton config, writing the default on first
// read so every later reader observes the same persisted record.
func (s *RosterService) EventConfig(ctx context.Context) (domain.EventConfig, error) {
	cfg, err := s.store.EventConfig().GetEventConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.EventConfig{}, err
	}

	// Lazy bootstrap: the default becomes the persisted value.
	cfg = domain.DefaultEventConfig()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.EventConfig().SetEventConfig(ctx, cfg); err != nil {
		return domain.EventConfig{}, err
	}
	slogx.FromContext(ctx).Info("event config bootstrapped with defaults")
	s.publishEventConfig(ctx)
	return cfg, nil
}

// SetEventConfig fully replaces the event config record. Date and
// Deadline must be calendar dates or empty; anything else is rejected
// before the write, because a stored deadline that never parses would
// silently leave RSVP open forever.
func (s *RosterService) SetEventConfig(ctx context.Context, cfg domain.EventConfig) error {
	if cfg.Date != "" {
		if _, err := time.Parse(domain.DateLayout, cfg.Date); err != nil {
			return errors.Join(ErrValidation, errors.New("event date must be a YYYY-MM-DD calendar date"))
		}
	}
	if cfg.Deadline != "" {
		if _, err := time.Parse(domain.DateLayout, cfg.Deadline); err != nil {
			return errors.Join(ErrValidation, errors.New("rsvp deadline must be a YYYY-MM-DD calendar date"))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.EventConfig().SetEventConfig(ctx, cfg); err != nil {
		slogx.FromContext(ctx).Error("failed to update event config", "err", err)
		return err
	}
	s.publishEventConfig(ctx)
	return nil
}

// SubscribeGuests returns a live stream of full roster snapshots. The
// current roster arrives first; after any change the stream eventually
// carries the newest state, though intermediate states may be skipped.
// The cancel func must be called when the consumer is done.
func (s *RosterService) SubscribeGuests(ctx context.Context) (<-chan []domain.Guest, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guests, err := s.store.Guests().ListGuests(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.guestHub.Subscribe(guests)
	return ch, cancel, nil
}

// SubscribeEventConfig is SubscribeGuests for the singleton config,
// bootstrapping the default when the record is absent.
func (s *RosterService) SubscribeEventConfig(ctx context.Context) (<-chan domain.EventConfig, func(), error) {
	if _, err := s.EventConfig(ctx); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.EventConfig().GetEventConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.eventHub.Subscribe(cfg)
	return ch, cancel, nil
}

// setGuestRSVP is the single write path for status and representative,
// shared by the RSVP state machine. Callers guarantee the representative
// invariant before calling.
func (s *RosterService) setGuestRSVP(
	ctx context.Context,
	id string,
	status domain.RSVPStatus,
	rep *domain.Representative,
	remark *string,
	respondedAt *time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Guests().SetGuestRSVP(ctx, id, status, rep, remark, respondedAt); err != nil {
		return err
	}
	s.publishGuests(ctx)
	return nil
}

// applyImportBatch commits the reconciled writes in one transaction, so a
// failed import leaves the roster exactly as it was.
func (s *RosterService) applyImportBatch(ctx context.Context, writes []importWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		for _, w := range writes {
			if w.merge {
				if err := tx.Guests().UpsertGuestMerge(ctx, w.guest); err != nil {
					return err
				}
				continue
			}
			if err := tx.Guests().CreateGuest(ctx, w.guest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publishGuests(ctx)
	return nil
}

func (s *RosterService) publishGuests(ctx context.Context) {
	guests, err := s.store.Guests().ListGuests(ctx)
	if err != nil {
		// Subscribers keep their previous snapshot; the next successful
		// mutation re-publishes.
		slogx.FromContext(ctx).Error("failed to refresh guest snapshot", "err", err)
		return
	}
	s.guestHub.Publish(guests)
}

func (s *RosterService) publishEventConfig(ctx context.Context) {
	cfg, err := s.store.EventConfig().GetEventConfig(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to refresh event config snapshot", "err", err)
		return
	}
	s.eventHub.Publish(cfg)
}
