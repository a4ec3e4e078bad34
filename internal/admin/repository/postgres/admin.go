package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// AdminRepository implements repository.AdminRepository using PostgreSQL.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new PostgreSQL admin repository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByEmail retrieves an admin user by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, name, password_hash, active, last_login_at,
		       created_at, updated_at
		FROM admin_users
		WHERE LOWER(email) = LOWER($1)`

	var a domain.AdminUser
	err := r.pool.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.Active,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("admin user", email)
		}
		return nil, fmt.Errorf("get admin user by email: %w", err)
	}

	return &a, nil
}

// UpdateLastLogin records a successful login timestamp.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `
		UPDATE admin_users
		SET last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("admin user", id)
	}

	return nil
}
