package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"controlling_doze/internal/models"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	// Empty states keep the previously stored value so a transition on one
	// doze type does not erase the other.
	upsertStatusSQL = `
		INSERT INTO doze_status (serial, deep, light, observed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(serial) DO UPDATE SET
			deep=COALESCE(excluded.deep, doze_status.deep),
			light=COALESCE(excluded.light, doze_status.light),
			observed_at=excluded.observed_at
	`

	selectStatusSQL = `
		SELECT serial, deep, light, observed_at
		FROM doze_status WHERE serial=?
	`
)

func nullState(s models.DozeState) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != ""}
}

// Save upserts the snapshot row for s.Serial. ObservedAt defaults to now.
func (r *StatusSQLite) Save(ctx context.Context, s models.StatusSnapshot) error {
	ts := s.ObservedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		s.Serial,
		nullState(s.Deep),
		nullState(s.Light),
		formatTS(ts),
	)
	return err
}

// Load returns the zero snapshot when nothing was stored for serial.
func (r *StatusSQLite) Load(ctx context.Context, serial string) (models.StatusSnapshot, error) {
	var (
		s           models.StatusSnapshot
		deep, light sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectStatusSQL, serial).Scan(&s.Serial, &deep, &light, &s.ObservedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusSnapshot{}, nil
		}
		return models.StatusSnapshot{}, err
	}
	s.Deep = models.DozeState(deep.String)
	s.Light = models.DozeState(light.String)
	s.ObservedAt = s.ObservedAt.UTC()
	return s, nil
}
