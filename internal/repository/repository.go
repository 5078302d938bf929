package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_doze/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type DeviceRepo interface {
	Create(ctx context.Context, d models.Device) error
	Get(ctx context.Context, serial string) (*models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
	Delete(ctx context.Context, serial string) (bool, error)
}

type StatusRepo interface {
	Save(ctx context.Context, s models.StatusSnapshot) error
	Load(ctx context.Context, serial string) (models.StatusSnapshot, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.DozeEvent) error
	List(ctx context.Context, q EventQuery) ([]models.DozeEvent, error)
}

type Repository struct {
	DeviceRepo DeviceRepo
	StatusRepo StatusRepo
	EventRepo  EventRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DeviceRepo: NewDeviceSQLite(db),
		StatusRepo: NewStatusSQLite(db),
		EventRepo:  NewEventSQLite(db),
		Auth:       NewOperatorSQLite(db),
	}
}

// tsLayout is the fixed-width UTC format timestamps are stored in, so that
// range filters compare correctly as text.
const tsLayout = "2006-01-02 15:04:05.000000"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }
