package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

const (
	TopicFavoritesUpdated = "storefront.favorites.updated"

	aggregateTypeFavorites = "favorites"
	sourceStorefront       = "storefront"
)

// FavoritesUpdatedData is the payload for a favorites.updated event.
type FavoritesUpdatedData struct {
	SessionID  string   `json:"session_id"`
	UserID     string   `json:"user_id,omitempty"`
	ProductIDs []string `json:"product_ids"`
	// Changed is the product the mutation touched; Favorited reports
	// whether it is in the list after the call.
	Changed   string `json:"changed_product_id"`
	Favorited bool   `json:"favorited"`
}

// Producer publishes favorites domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishUpdated publishes a favorites.updated event for one mutation.
func (p *Producer) PublishUpdated(ctx context.Context, favorites *domain.Favorites, changed string, favorited bool) error {
	ids := make([]string, len(favorites.Items))
	for i, entry := range favorites.Items {
		ids[i] = entry.ProductID
	}

	data := FavoritesUpdatedData{
		SessionID:  favorites.SessionID,
		UserID:     favorites.UserID,
		ProductIDs: ids,
		Changed:    changed,
		Favorited:  favorited,
	}

	event, err := pkgkafka.NewEvent(TopicFavoritesUpdated, favorites.SessionID, aggregateTypeFavorites, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create favorites.updated event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicFavoritesUpdated, event); err != nil {
		return fmt.Errorf("publish favorites.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published favorites.updated event",
		slog.String("session_id", favorites.SessionID),
		slog.String("product_id", changed),
		slog.Bool("favorited", favorited),
	)
	return nil
}
