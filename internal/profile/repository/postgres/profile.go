package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiago536/v0-gabycommerce-structure/internal/profile/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// ProfileRepository implements repository.ProfileRepository using
// PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get retrieves the profile for a user.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, phone, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

// Upsert creates or replaces the profile for a user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			phone      = EXCLUDED.phone,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Phone,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
