package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

const keyPrefix = "favorites:"

// FavoritesStore implements repository.LocalStore using Redis. One JSON
// document per session, expiring after the configured TTL of inactivity.
type FavoritesStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFavoritesStore creates a new Redis-backed local favorites store.
func NewFavoritesStore(client *redis.Client, ttl time.Duration) *FavoritesStore {
	return &FavoritesStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the favorites document for a session.
func (s *FavoritesStore) Get(ctx context.Context, sessionID string) (*domain.Favorites, error) {
	key := keyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("favorites", sessionID)
		}
		return nil, fmt.Errorf("redis get favorites: %w", err)
	}

	var favorites domain.Favorites
	if err := json.Unmarshal(data, &favorites); err != nil {
		return nil, fmt.Errorf("unmarshal favorites: %w", err)
	}

	return &favorites, nil
}

// Save persists the favorites document with the configured TTL.
func (s *FavoritesStore) Save(ctx context.Context, favorites *domain.Favorites) error {
	key := keyPrefix + favorites.SessionID

	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set favorites: %w", err)
	}

	return nil
}

// Delete removes the favorites document for a session.
func (s *FavoritesStore) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del favorites: %w", err)
	}

	return nil
}
