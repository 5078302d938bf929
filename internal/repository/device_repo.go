package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"controlling_doze/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite { return &DeviceSQLite{db: db} }

var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	insertDeviceSQL = `INSERT INTO devices (serial, name, transport, created_at) VALUES (?, ?, ?, ?)`
	selectDeviceSQL = `SELECT serial, name, transport, created_at FROM devices WHERE serial = ?`
	listDevicesSQL  = `SELECT serial, name, transport, created_at FROM devices ORDER BY serial ASC`
	deleteDeviceSQL = `DELETE FROM devices WHERE serial = ?`
)

// Create registers a device. CreatedAt defaults to now.
func (r *DeviceSQLite) Create(ctx context.Context, d models.Device) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertDeviceSQL, d.Serial, d.Name, d.Transport, formatTS(d.CreatedAt)); err != nil {
		return fmt.Errorf("insert device %q: %w", d.Serial, err)
	}
	return nil
}

// Get returns (nil, nil) when serial is not registered.
func (r *DeviceSQLite) Get(ctx context.Context, serial string) (*models.Device, error) {
	var d models.Device
	err := r.db.QueryRowContext(ctx, selectDeviceSQL, serial).Scan(&d.Serial, &d.Name, &d.Transport, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select device %q: %w", serial, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

func (r *DeviceSQLite) List(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, listDevicesSQL)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	out := make([]models.Device, 0, 8)
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.Serial, &d.Name, &d.Transport, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		d.CreatedAt = d.CreatedAt.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete reports whether a row was removed.
func (r *DeviceSQLite) Delete(ctx context.Context, serial string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteDeviceSQL, serial)
	if err != nil {
		return false, fmt.Errorf("delete device %q: %w", serial, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for device %q: %w", serial, err)
	}
	return n > 0, nil
}
