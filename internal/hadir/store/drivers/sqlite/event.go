package sqlite

import (
	"context"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/domain"
)

// eventConfigKey is the fixed primary key of the singleton config row.
const eventConfigKey = "details"

type eventConfigRepo struct {
	db querier
}

func (r *eventConfigRepo) GetEventConfig(ctx context.Context) (domain.EventConfig, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT event_name, theme, location, event_date, deadline, updated_at
		FROM event_config WHERE id = ?`, eventConfigKey)

	var cfg domain.EventConfig
	err := row.Scan(&cfg.EventName, &cfg.Theme, &cfg.Location, &cfg.Date, &cfg.Deadline, &cfg.UpdatedAt)
	if err != nil {
		return domain.EventConfig{}, mapNotFound(err)
	}
	return cfg, nil
}

func (r *eventConfigRepo) SetEventConfig(ctx context.Context, cfg domain.EventConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_config (id, event_name, theme, location, event_date, deadline, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			event_name = excluded.event_name,
			theme = excluded.theme,
			location = excluded.location,
			event_date = excluded.event_date,
			deadline = excluded.deadline,
			updated_at = excluded.updated_at`,
		eventConfigKey, cfg.EventName, cfg.Theme, cfg.Location, cfg.Date, cfg.Deadline,
		time.Now().UTC(),
	)
	return mapSQLiteErr(err)
}
