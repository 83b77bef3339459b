package store

import (
	"context"
	"errors"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
)

var (
	// ErrNotFound reports that the targeted record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrPermissionDenied reports that the underlying database rejected the
	// access (readonly file, withdrawn privileges). It is kept distinct from
	// ErrNotFound so callers can surface it as a configuration problem
	// instead of a missing record.
	ErrPermissionDenied = errors.New("store: permission denied")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep the guest collection and the
// singleton event config separate; everything above this interface talks
// to storage only through the roster service.
type Store interface {
	Guests() Guests
	EventConfig() EventConfigs

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Bulk imports
	// rely on this: either every valid row lands or none do.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	// Prefer WithTx unless you need manual control.
	Tx(ctx context.Context) (Tx, error)

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Guests interface {
	// GetGuest returns a guest by id.
	GetGuest(ctx context.Context, id string) (domain.Guest, error)

	// ListGuests returns every guest ordered by name (case-insensitive),
	// ties broken by id so the order is stable across reads.
	ListGuests(ctx context.Context) ([]domain.Guest, error)

	// CreateGuest inserts a new guest (id is provided by the app via ULID).
	CreateGuest(ctx context.Context, g domain.Guest) error

	// UpsertGuestMerge writes the imported fields of g under g.ID, creating
	// the row if absent. CreatedAt and RespondedAt of an existing row are
	// preserved; a recreated row gets g.CreatedAt. This is the
	// update-or-recreate primitive for bulk import.
	UpsertGuestMerge(ctx context.Context, g domain.Guest) error

	// UpdateGuestDetails applies a partial merge of profile fields and
	// bumps updated_at. Unset patch fields keep their stored value.
	UpdateGuestDetails(ctx context.Context, id string, p domain.GuestPatch) error

	// SetGuestRSVP updates the response status and representative together.
	// remark and respondedAt are only written when non-nil; admin-initiated
	// changes pass respondedAt == nil so the guest's own response time is
	// never overwritten.
	SetGuestRSVP(ctx context.Context, id string, status domain.RSVPStatus, rep *domain.Representative, remark *string, respondedAt *time.Time) error

	// DeleteGuest removes a guest. Deleting an absent id is not an error.
	DeleteGuest(ctx context.Context, id string) error
}

type EventConfigs interface {
	// GetEventConfig returns the singleton config, or ErrNotFound if it has
	// never been written.
	GetEventConfig(ctx context.Context) (domain.EventConfig, error)

	// SetEventConfig fully replaces the singleton config record.
	SetEventConfig(ctx context.Context, cfg domain.EventConfig) error
}
