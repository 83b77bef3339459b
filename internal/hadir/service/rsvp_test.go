package service

import (
	"context"
	"testing"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/stretchr/testify/require"
)

func newTestRSVP(t *testing.T) (*RosterService, *RSVPService) {
	t.Helper()
	roster := newTestRoster(t)
	return roster, &RSVPService{Roster: roster, Location: time.UTC}
}

func setDeadline(t *testing.T, roster *RosterService, deadline string) {
	t.Helper()
	ctx := context.Background()
	cfg, err := roster.EventConfig(ctx)
	require.NoError(t, err)
	cfg.Deadline = deadline
	require.NoError(t, roster.SetEventConfig(ctx, cfg))
}

func TestSubmitDirect(t *testing.T) {
	ctx := context.Background()
	roster, rsvp := newTestRSVP(t)

	g, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Ali"})
	require.NoError(t, err)

	t.Run("records attending with remark and timestamp", func(t *testing.T) {
		updated, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPAttending, " Looking forward ")
		require.NoError(t, err)
		require.Equal(t, domain.RSVPAttending, updated.RSVPStatus)
		require.Equal(t, "Looking forward", updated.Remark)
		require.Nil(t, updated.Representative)
		require.NotNil(t, updated.RespondedAt)
	})

	t.Run("switches to not attending", func(t *testing.T) {
		updated, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPNotAttending, "")
		require.NoError(t, err)
		require.Equal(t, domain.RSVPNotAttending, updated.RSVPStatus)
	})

	t.Run("rejects wakil status on the direct path", func(t *testing.T) {
		_, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPAttendingViaRepresentative, "")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects pending on the direct path", func(t *testing.T) {
		_, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPPending, "")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("clears a previous representative", func(t *testing.T) {
		_, err := rsvp.SubmitViaRepresentative(ctx, g.ID, "Ahmad", "Pegawai Farmasi", "")
		require.NoError(t, err)

		updated, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPAttending, "")
		require.NoError(t, err)
		require.Nil(t, updated.Representative)
	})
}

func TestSubmitViaRepresentative(t *testing.T) {
	ctx := context.Background()
	roster, rsvp := newTestRSVP(t)

	g, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Ali"})
	require.NoError(t, err)

	t.Run("records the representative", func(t *testing.T) {
		updated, err := rsvp.SubmitViaRepresentative(ctx, g.ID, "Ahmad", "Pegawai Farmasi", "on my behalf")
		require.NoError(t, err)
		require.Equal(t, domain.RSVPAttendingViaRepresentative, updated.RSVPStatus)
		require.NotNil(t, updated.Representative)
		require.Equal(t, "Ahmad", updated.Representative.Name)
		require.Equal(t, "Pegawai Farmasi", updated.Representative.Designation)
		require.NotNil(t, updated.RespondedAt)
	})

	t.Run("requires both fields", func(t *testing.T) {
		_, err := rsvp.SubmitViaRepresentative(ctx, g.ID, "Ahmad", " ", "")
		require.ErrorIs(t, err, ErrValidation)

		_, err = rsvp.SubmitViaRepresentative(ctx, g.ID, "", "Pegawai Farmasi", "")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestResetToPending(t *testing.T) {
	ctx := context.Background()
	roster, rsvp := newTestRSVP(t)

	g, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Ali"})
	require.NoError(t, err)

	_, err = rsvp.SubmitViaRepresentative(ctx, g.ID, "Ahmad", "Pegawai Farmasi", "note")
	require.NoError(t, err)

	reset, err := rsvp.ResetToPending(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RSVPPending, reset.RSVPStatus)
	require.Nil(t, reset.Representative)

	// History stays: the remark and response time describe what happened,
	// not the current answer.
	require.Equal(t, "note", reset.Remark)
	require.NotNil(t, reset.RespondedAt)
}

func TestDeadlineGating(t *testing.T) {
	ctx := context.Background()
	roster, rsvp := newTestRSVP(t)

	g, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Ali"})
	require.NoError(t, err)

	_, err = rsvp.SubmitDirect(ctx, g.ID, domain.RSVPAttending, "")
	require.NoError(t, err)

	setDeadline(t, roster, "2000-01-01")

	t.Run("guest paths fail closed", func(t *testing.T) {
		_, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPNotAttending, "")
		require.ErrorIs(t, err, ErrDeadlinePassed)

		_, err = rsvp.SubmitViaRepresentative(ctx, g.ID, "Ahmad", "Pegawai Farmasi", "")
		require.ErrorIs(t, err, ErrDeadlinePassed)

		_, err = rsvp.ResetToPending(ctx, g.ID)
		require.ErrorIs(t, err, ErrDeadlinePassed)

		// The stored answer is untouched.
		stored, err := roster.GetGuest(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RSVPAttending, stored.RSVPStatus)
	})

	t.Run("admin path is never gated", func(t *testing.T) {
		updated, err := rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPNotAttending, nil)
		require.NoError(t, err)
		require.Equal(t, domain.RSVPNotAttending, updated.RSVPStatus)
	})

	t.Run("extending the deadline reopens immediately", func(t *testing.T) {
		setDeadline(t, roster, "2999-01-01")

		_, err := rsvp.SubmitDirect(ctx, g.ID, domain.RSVPAttending, "")
		require.NoError(t, err)
	})
}

func TestAdminSetStatus(t *testing.T) {
	ctx := context.Background()
	roster, rsvp := newTestRSVP(t)

	g, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Ali"})
	require.NoError(t, err)

	t.Run("wakil requires a complete representative", func(t *testing.T) {
		_, err := rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPAttendingViaRepresentative, nil)
		require.ErrorIs(t, err, ErrValidation)

		_, err = rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPAttendingViaRepresentative,
			&domain.Representative{Name: "Ahmad"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non-wakil statuses drop the representative", func(t *testing.T) {
		_, err := rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPAttendingViaRepresentative,
			&domain.Representative{Name: "Ahmad", Designation: "Pegawai Farmasi"})
		require.NoError(t, err)

		updated, err := rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPAttending, nil)
		require.NoError(t, err)
		require.Nil(t, updated.Representative)
	})

	t.Run("does not stamp respondedAt", func(t *testing.T) {
		fresh, err := roster.CreateGuest(ctx, CreateGuestInput{Name: "Dr. Siti"})
		require.NoError(t, err)

		updated, err := rsvp.AdminSetStatus(ctx, fresh.ID, domain.RSVPAttending, nil)
		require.NoError(t, err)
		require.Nil(t, updated.RespondedAt)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		_, err := rsvp.AdminSetStatus(ctx, g.ID, domain.RSVPStatus("Maybe"), nil)
		require.ErrorIs(t, err, ErrValidation)
	})
}
