package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"controlling_doze/internal/models"

	"github.com/google/uuid"
)

// EventQuery selects transition events. Zero fields disable their filter.
// With Limit > 0 only the newest Limit matches are returned.
type EventQuery struct {
	From     time.Time
	To       time.Time
	Type     string
	Serial   string
	DozeType models.DozeType
	Limit    int
}

// where renders the filter as SQL conditions and their arguments.
func (q EventQuery) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if !q.From.IsZero() {
		add("occurred_at >= ?", formatTS(q.From))
	}
	if !q.To.IsZero() {
		add("occurred_at <= ?", formatTS(q.To))
	}
	if t := strings.ToUpper(strings.TrimSpace(q.Type)); t != "" {
		add("type = ?", t)
	}
	if s := strings.TrimSpace(q.Serial); s != "" {
		add("serial = ?", s)
	}
	if q.DozeType != "" {
		add("doze_type = ?", string(q.DozeType))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const (
	insertEventSQL = `INSERT INTO doze_events (id, occurred_at, serial, type, doze_type, attempts, message, meta) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectEventSQL = `SELECT id, occurred_at, serial, type, doze_type, attempts, message, meta FROM doze_events`
)

// Append stores e, assigning an id and timestamp when missing.
func (r *EventSQLite) Append(ctx context.Context, e models.DozeEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	meta, err := encodeMeta(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata of event %s: %w", e.EventID, err)
	}

	_, err = r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		formatTS(e.OccurredAt),
		e.Serial,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		string(e.DozeType),
		e.Attempts,
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// List returns matching events oldest first.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.DozeEvent, error) {
	where, args := q.where()
	stmt := selectEventSQL + where
	if q.Limit > 0 {
		stmt += " ORDER BY occurred_at DESC LIMIT ?"
		args = append(args, q.Limit)
	} else {
		stmt += " ORDER BY occurred_at ASC"
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]models.DozeEvent, 0, 64)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if q.Limit > 0 {
		slices.Reverse(out)
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (models.DozeEvent, error) {
	var (
		ev       models.DozeEvent
		dozeType string
		meta     sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Serial, &ev.Type, &dozeType, &ev.Attempts, &ev.Description, &meta); err != nil {
		return ev, err
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	ev.DozeType = models.DozeType(dozeType)
	ev.Metadata = decodeMeta(meta)
	return ev, nil
}

func encodeMeta(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// decodeMeta keeps non-JSON payloads as the raw string.
func decodeMeta(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return s.String
	}
	return v
}
