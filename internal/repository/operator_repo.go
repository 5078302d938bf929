package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"controlling_doze/internal/models"
)

// OperatorSQLite stores API operators in the users table.
type OperatorSQLite struct {
	db *sql.DB
}

func NewOperatorSQLite(db *sql.DB) *OperatorSQLite { return &OperatorSQLite{db: db} }

var _ Authorization = (*OperatorSQLite)(nil)

const (
	insertOperatorSQL       = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	selectOperatorByNameSQL = `SELECT id, username, password_hash FROM users WHERE username = ?`
)

// Create inserts an operator and returns its id.
func (r *OperatorSQLite) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertOperatorSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert operator %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for operator %q: %w", username, err)
	}
	return int(id), nil
}

// GetByUsername returns (nil, nil) when username is unknown.
func (r *OperatorSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectOperatorByNameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select operator %q: %w", username, err)
	}
	return &u, nil
}
