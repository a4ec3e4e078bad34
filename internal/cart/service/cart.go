package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/event"
	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/repository"
	cartsync "github.com/thiago536/v0-gabycommerce-structure/internal/cart/sync"
	catalogdomain "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerLine is the maximum quantity allowed for a single line.
	MaxQuantityPerLine = 100
	// MaxLinesPerCart is the maximum number of distinct lines in a cart.
	MaxLinesPerCart = 50
)

// Session identifies the caller of a cart operation: the browser session ID
// plus the authenticated user ID, empty for guests.
type Session struct {
	ID     string
	UserID string
}

// Catalog provides the product and variant lookups AddItem snapshots from.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
	GetVariant(ctx context.Context, id string) (*catalogdomain.ProductVariant, error)
}

// Syncer accepts outbound mirror write intents.
type Syncer interface {
	Enqueue(intent cartsync.Intent)
}

// MirrorReader reads the remote cart rows back for an authenticated user.
type MirrorReader interface {
	LoadForUser(ctx context.Context, userID string) ([]domain.Line, error)
}

// CartService implements the cart store: local-first mutations with
// best-effort asynchronous mirroring for authenticated sessions.
type CartService struct {
	local    repository.LocalStore
	syncer   Syncer
	journal  *cartsync.Journal
	reader   MirrorReader
	catalog  Catalog
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	local repository.LocalStore,
	syncer Syncer,
	journal *cartsync.Journal,
	reader MirrorReader,
	catalog Catalog,
	producer *event.Producer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		local:    local,
		syncer:   syncer,
		journal:  journal,
		reader:   reader,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. If none exists an empty cart is
// returned without being persisted.
func (s *CartService) GetCart(ctx context.Context, sess Session) (*domain.Cart, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.local.Get(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sess), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a (product, variant) pair to the cart. The product and
// variant are fetched from the catalog so the line carries a denormalized
// snapshot; a missing product or variant aborts the action. If a line for
// the same pair already exists the quantities are summed instead of
// creating a duplicate line.
func (s *CartService) AddItem(ctx context.Context, sess Session, productID, variantID string, quantity int) (*domain.Cart, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var variant *catalogdomain.ProductVariant
	if variantID != "" {
		variant, err = s.catalog.GetVariant(ctx, variantID)
		if err != nil {
			return nil, err
		}
	}

	cart, err := s.getOrCreateCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	// One line per (product, variant) pair: merge by summing quantities.
	if i := cart.FindLine(productID, variantID); i >= 0 {
		return s.UpdateQuantity(ctx, sess, cart.Items[i].ID, cart.Items[i].Quantity+quantity)
	}

	if len(cart.Items) >= MaxLinesPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxLinesPerCart))
	}

	now := time.Now().UTC()
	line := domain.Line{
		ID:        domain.NewLineID(productID, variantID, now),
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		Product:   snapshotProduct(product),
	}
	if variant != nil {
		line.Variant = snapshotVariant(variant)
	}
	cart.Items = append(cart.Items, line)
	cart.UpdatedAt = now

	if err := s.local.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if sess.UserID != "" {
		s.syncer.Enqueue(cartsync.NewIntent(cartsync.OpInsert, sess.UserID, productID, variantID, quantity))
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sess.ID),
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less delegates to RemoveItem. Quantity is never clamped to stock;
// stock-based disabling is the caller's responsibility.
func (s *CartService) UpdateQuantity(ctx context.Context, sess Session, lineID string, quantity int) (*domain.Cart, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if lineID == "" {
		return nil, apperrors.InvalidInput("line id is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, sess, lineID)
	}
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	cart, err := s.GetCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	i := cart.FindLineByID(lineID)
	if i < 0 {
		return nil, apperrors.NotFound("cart item", lineID)
	}

	cart.Items[i].Quantity = quantity
	cart.UpdatedAt = time.Now().UTC()

	if err := s.local.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if sess.UserID != "" {
		s.syncer.Enqueue(cartsync.NewIntent(cartsync.OpUpdate, sess.UserID, cart.Items[i].ProductID, cart.Items[i].VariantID, quantity))
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sess.ID),
		slog.String("line_id", lineID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a line from the local cart unconditionally. For
// authenticated sessions a mirror delete is enqueued; a mirror failure is
// journaled and never rolls back the local removal.
func (s *CartService) RemoveItem(ctx context.Context, sess Session, lineID string) (*domain.Cart, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if lineID == "" {
		return nil, apperrors.InvalidInput("line id is required")
	}

	cart, err := s.GetCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	i := cart.FindLineByID(lineID)
	if i < 0 {
		// Already gone; local state is the source of truth for the render.
		return cart, nil
	}

	removed := cart.Items[i]
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	cart.UpdatedAt = time.Now().UTC()

	if err := s.local.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if sess.UserID != "" {
		s.syncer.Enqueue(cartsync.NewIntent(cartsync.OpDelete, sess.UserID, removed.ProductID, removed.VariantID, 0))
	}

	s.publishUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sess.ID),
		slog.String("product_id", removed.ProductID),
		slog.String("variant_id", removed.VariantID),
	)

	return cart, nil
}

// ClearCart empties the local cart only. The remote cart_items rows are
// deliberately left untouched; after checkout they remain as the remote
// copy of record.
func (s *CartService) ClearCart(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.local.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sess.ID, sess.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sess.ID),
	)

	return nil
}

// LoadCart replaces the local cart wholesale with the remote rows for an
// authenticated user. No merge with a pre-existing guest cart is performed:
// the remote copy unconditionally overwrites local state. For guests this
// is a no-op returning the current local cart.
func (s *CartService) LoadCart(ctx context.Context, sess Session) (*domain.Cart, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if sess.UserID == "" {
		return s.GetCart(ctx, sess)
	}

	lines, err := s.loadMirror(ctx, sess.UserID)
	if err != nil {
		// Local state is left untouched on a remote read failure.
		s.logger.ErrorContext(ctx, "failed to load remote cart",
			slog.String("user_id", sess.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("load remote cart: %w", err)
	}

	cart := &domain.Cart{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Items:     lines,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.local.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart loaded from remote",
		slog.String("session_id", sess.ID),
		slog.String("user_id", sess.UserID),
		slog.Int("lines", len(lines)),
	)

	return cart, nil
}

// SyncStatus returns the recorded mirror write outcomes for the session's
// user, so the UI can surface sync-error indicators.
func (s *CartService) SyncStatus(sess Session) []cartsync.Result {
	if sess.UserID == "" {
		return nil
	}
	return s.journal.Results(sess.UserID)
}

func (s *CartService) loadMirror(ctx context.Context, userID string) ([]domain.Line, error) {
	return s.reader.LoadForUser(ctx, userID)
}

func (s *CartService) getOrCreateCart(ctx context.Context, sess Session) (*domain.Cart, error) {
	cart, err := s.local.Get(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sess), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) newEmptyCart(sess Session) *domain.Cart {
	return &domain.Cart{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Items:     []domain.Line{},
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
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

func snapshotVariant(v *catalogdomain.ProductVariant) *domain.VariantSnapshot {
	return &domain.VariantSnapshot{
		ID:            v.ID,
		Name:          v.Name,
		Attributes:    v.Attributes,
		StockQuantity: v.StockQuantity,
	}
}
