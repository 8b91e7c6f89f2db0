package database

import (
	"context"
	"database/sql"
	"fmt"

	"pebble_scheduler/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (uid, name, email) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, u.UID, u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByUID(ctx context.Context, uid string) (*user.User, error) {
	query := `SELECT uid, name, email FROM users WHERE uid = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, uid).Scan(&u.UID, &u.Name, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by UID: %w", err)
	}
	return u, nil
}
