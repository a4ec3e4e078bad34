package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thiago536/v0-gabycommerce-structure/internal/profile/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/profile/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// ProfileService implements the business logic for shopper profiles.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile retrieves the profile for a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	return s.repo.Get(ctx, userID)
}

// UpdateProfileInput holds the editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// UpdateProfile creates or replaces the profile for a user.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.Profile, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	profile := &domain.Profile{
		UserID:    userID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
	}

	if profile.FirstName == "" && profile.LastName == "" {
		return nil, apperrors.InvalidInput("at least one of first_name or last_name is required")
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))

	return s.repo.Get(ctx, userID)
}
