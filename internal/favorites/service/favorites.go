package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	catalogdomain "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/event"
	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// Session identifies the caller: browser session ID plus the authenticated
// user ID, empty for guests.
type Session struct {
	ID     string
	UserID string
}

// Catalog provides the product lookup AddItem snapshots from.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// FavoritesService implements the favorites store: local-first mutations
// with a synchronous best-effort mirror for authenticated sessions. A
// mirror failure is logged and never surfaces to the caller; the local
// list is the source of truth for the render.
type FavoritesService struct {
	local    repository.LocalStore
	mirror   repository.Mirror
	catalog  Catalog
	producer *event.Producer
	logger   *slog.Logger
}

// NewFavoritesService creates a new favorites service.
func NewFavoritesService(
	local repository.LocalStore,
	mirror repository.Mirror,
	catalog Catalog,
	producer *event.Producer,
	logger *slog.Logger,
) *FavoritesService {
	return &FavoritesService{
		local:    local,
		mirror:   mirror,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// Get retrieves the favorites list for a session. If none exists an empty
// list is returned without being persisted.
func (s *FavoritesService) Get(ctx context.Context, sess Session) (*domain.Favorites, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	favorites, err := s.local.Get(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyList(sess), nil
		}
		return nil, fmt.Errorf("get favorites: %w", err)
	}

	return favorites, nil
}

// AddItem adds a product to the favorites list. Adding a product already in
// the list is a no-op returning the unchanged list. A missing product
// aborts the action.
func (s *FavoritesService) AddItem(ctx context.Context, sess Session, productID string) (*domain.Favorites, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	favorites, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	if favorites.Contains(productID) {
		return favorites, nil
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	favorites.Items = append(favorites.Items, domain.Entry{
		ProductID: productID,
		Product:   snapshotProduct(product),
		AddedAt:   now,
	})
	favorites.UpdatedAt = now

	if err := s.local.Save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("save favorites: %w", err)
	}

	if sess.UserID != "" {
		if err := s.mirror.Insert(ctx, sess.UserID, productID); err != nil {
			s.logger.ErrorContext(ctx, "favorites mirror insert failed",
				slog.String("user_id", sess.UserID),
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	// Event publishing is best effort; Publish already logged the failure.
	_ = s.producer.PublishUpdated(ctx, favorites, productID, true)

	s.logger.InfoContext(ctx, "product favorited",
		slog.String("session_id", sess.ID),
		slog.String("product_id", productID),
	)

	return favorites, nil
}

// RemoveItem removes a product from the favorites list. Removing a product
// that is not in the list is a no-op.
func (s *FavoritesService) RemoveItem(ctx context.Context, sess Session, productID string) (*domain.Favorites, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	favorites, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	if !favorites.Remove(productID) {
		return favorites, nil
	}
	favorites.UpdatedAt = time.Now().UTC()

	if err := s.local.Save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("save favorites: %w", err)
	}

	if sess.UserID != "" {
		if err := s.mirror.Delete(ctx, sess.UserID, productID); err != nil {
			s.logger.ErrorContext(ctx, "favorites mirror delete failed",
				slog.String("user_id", sess.UserID),
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	_ = s.producer.PublishUpdated(ctx, favorites, productID, false)

	s.logger.InfoContext(ctx, "product unfavorited",
		slog.String("session_id", sess.ID),
		slog.String("product_id", productID),
	)

	return favorites, nil
}

// Toggle adds the product if absent and removes it if present, reporting
// whether the product is favorited after the call.
func (s *FavoritesService) Toggle(ctx context.Context, sess Session, productID string) (*domain.Favorites, bool, error) {
	favorites, err := s.Get(ctx, sess)
	if err != nil {
		return nil, false, err
	}

	if favorites.Contains(productID) {
		favorites, err = s.RemoveItem(ctx, sess, productID)
		return favorites, false, err
	}

	favorites, err = s.AddItem(ctx, sess, productID)
	return favorites, true, err
}

// IsInFavorites reports whether the product is in the session's list.
func (s *FavoritesService) IsInFavorites(ctx context.Context, sess Session, productID string) (bool, error) {
	favorites, err := s.Get(ctx, sess)
	if err != nil {
		return false, err
	}
	return favorites.Contains(productID), nil
}

// Load replaces the local favorites list wholesale with the remote rows for
// an authenticated user. No merge is performed. For guests this is a no-op
// returning the current local list.
func (s *FavoritesService) Load(ctx context.Context, sess Session) (*domain.Favorites, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if sess.UserID == "" {
		return s.Get(ctx, sess)
	}

	entries, err := s.mirror.LoadForUser(ctx, sess.UserID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load remote favorites",
			slog.String("user_id", sess.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("load remote favorites: %w", err)
	}

	favorites := &domain.Favorites{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Items:     entries,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.local.Save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("save favorites: %w", err)
	}

	return favorites, nil
}

func (s *FavoritesService) newEmptyList(sess Session) *domain.Favorites {
	return &domain.Favorites{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Items:     []domain.Entry{},
		UpdatedAt: time.Now().UTC(),
	}
}

func snapshotProduct(p *catalogdomain.Product) domain.ProductSnapshot {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return domain.ProductSnapshot{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Price:            p.Price,
		PromotionalPrice: p.PromotionalPrice,
		Images:           images,
		StockQuantity:    p.StockQuantity,
	}
}
