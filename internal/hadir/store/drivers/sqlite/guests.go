package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/store"
)

type guestsRepo struct {
	db querier
}

const guestColumns = `id, name, organization, email, phone, remark,
	invitation_sent, rsvp_status, rep_name, rep_designation,
	created_at, responded_at, updated_at`

func (r *guestsRepo) GetGuest(ctx context.Context, id string) (domain.Guest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = ?`, id)

	g, err := scanGuest(row)
	if err != nil {
		return domain.Guest{}, mapNotFound(err)
	}
	return g, nil
}

func (r *guestsRepo) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, mapSQLiteErr(err)
	}
	defer rows.Close()

	guests := []domain.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, mapSQLiteErr(err)
		}
		guests = append(guests, g)
	}
	return guests, mapSQLiteErr(rows.Err())
}

func (r *guestsRepo) CreateGuest(ctx context.Context, g domain.Guest) error {
	repName, repDesignation := splitRepresentative(g.Representative)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guests (
			id, name, organization, email, phone, remark,
			invitation_sent, rsvp_status, rep_name, rep_designation,
			created_at, responded_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Organization, g.Email, g.Phone, g.Remark,
		g.InvitationSent, string(g.RSVPStatus), repName, repDesignation,
		g.CreatedAt, mapOptionalTime(g.RespondedAt), g.UpdatedAt,
	)
	return mapSQLiteErr(err)
}

func (r *guestsRepo) UpsertGuestMerge(ctx context.Context, g domain.Guest) error {
	repName, repDesignation := splitRepresentative(g.Representative)

	// On conflict every imported field is overwritten, but created_at and
	// responded_at keep their stored values: a re-imported export must not
	// rewrite when the guest was created or when they responded.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guests (
			id, name, organization, email, phone, remark,
			invitation_sent, rsvp_status, rep_name, rep_designation,
			created_at, responded_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			organization = excluded.organization,
			email = excluded.email,
			phone = excluded.phone,
			remark = excluded.remark,
			invitation_sent = excluded.invitation_sent,
			rsvp_status = excluded.rsvp_status,
			rep_name = excluded.rep_name,
			rep_designation = excluded.rep_designation,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, g.Organization, g.Email, g.Phone, g.Remark,
		g.InvitationSent, string(g.RSVPStatus), repName, repDesignation,
		g.CreatedAt, g.UpdatedAt,
	)
	return mapSQLiteErr(err)
}

func (r *guestsRepo) UpdateGuestDetails(ctx context.Context, id string, p domain.GuestPatch) error {
	var invitationSent any
	if p.InvitationSent != nil {
		invitationSent = *p.InvitationSent
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE guests SET
			name = COALESCE(?, name),
			organization = COALESCE(?, organization),
			email = COALESCE(?, email),
			phone = COALESCE(?, phone),
			remark = COALESCE(?, remark),
			invitation_sent = COALESCE(?, invitation_sent),
			updated_at = ?
		WHERE id = ?`,
		mapOptionalString(p.Name), mapOptionalString(p.Organization),
		mapOptionalString(p.Email), mapOptionalString(p.Phone),
		mapOptionalString(p.Remark), invitationSent,
		time.Now().UTC(), id,
	)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireRowHit(res)
}

func (r *guestsRepo) SetGuestRSVP(
	ctx context.Context,
	id string,
	status domain.RSVPStatus,
	rep *domain.Representative,
	remark *string,
	respondedAt *time.Time,
) error {
	repName, repDesignation := splitRepresentative(rep)

	res, err := r.db.ExecContext(ctx, `
		UPDATE guests SET
			rsvp_status = ?,
			rep_name = ?,
			rep_designation = ?,
			remark = COALESCE(?, remark),
			responded_at = COALESCE(?, responded_at),
			updated_at = ?
		WHERE id = ?`,
		string(status), repName, repDesignation,
		mapOptionalString(remark), mapOptionalTime(respondedAt),
		time.Now().UTC(), id,
	)
	if err != nil {
		return mapSQLiteErr(err)
	}
	return requireRowHit(res)
}

func (r *guestsRepo) DeleteGuest(ctx context.Context, id string) error {
	// Idempotent: deleting an already-absent guest is fine.
	_, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	return mapSQLiteErr(err)
}

func requireRowHit(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapSQLiteErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func splitRepresentative(rep *domain.Representative) (sql.NullString, sql.NullString) {
	if rep == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return mapStringNull(rep.Name), mapStringNull(rep.Designation)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (domain.Guest, error) {
	var (
		g              domain.Guest
		status         string
		repName        sql.NullString
		repDesignation sql.NullString
		respondedAt    sql.NullTime
	)

	err := row.Scan(
		&g.ID, &g.Name, &g.Organization, &g.Email, &g.Phone, &g.Remark,
		&g.InvitationSent, &status, &repName, &repDesignation,
		&g.CreatedAt, &respondedAt, &g.UpdatedAt,
	)
	if err != nil {
		return domain.Guest{}, err
	}

	g.RSVPStatus = domain.RSVPStatus(status)
	g.RespondedAt = mapNullTimePtr(respondedAt)
	if repName.Valid && repName.String != "" {
		g.Representative = &domain.Representative{
			Name:        repName.String,
			Designation: mapNullString(repDesignation),
		}
	}
	return g, nil
}
