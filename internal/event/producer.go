package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/utafrali/wishlist/internal/domain"
	pkgkafka "github.com/utafrali/wishlist/pkg/kafka"
	"github.com/utafrali/wishlist/pkg/logger"
)

// Event type constants for wishlist domain events.
const (
	TypeWishlistCreated = "wishlist.created"
	TypeWishlistDeleted = "wishlist.deleted"
	TypeItemAdded       = "wishlist.item_added"
	TypeItemMovedToCart = "wishlist.item_moved_to_cart"
)

// Aggregate type constant.
const AggregateTypeWishlist = "wishlist"

// Source identifier for events originating from the wishlist service.
const SourceWishlistService = "wishlist-service"

// Kafka topics the events are published to.
var (
	TopicWishlistCreated = pkgkafka.Topic("wishlist", "created")
	TopicWishlistDeleted = pkgkafka.Topic("wishlist", "deleted")
	TopicItemAdded       = pkgkafka.Topic("wishlist", "item_added")
	TopicItemMovedToCart = pkgkafka.Topic("wishlist", "item_moved_to_cart")
)

// WishlistData is the payload for wishlist.created.
type WishlistData struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CustomerID int64  `json:"customer_id"`
}

// WishlistDeletedData is the payload for wishlist.deleted.
type WishlistDeletedData struct {
	ID int64 `json:"id"`
}

// ItemData is the payload for wishlist.item_added.
type ItemData struct {
	WishlistID  int64  `json:"wishlist_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
}

// ItemMovedToCartData is the payload for wishlist.item_moved_to_cart.
type ItemMovedToCartData struct {
	WishlistID  int64           `json:"wishlist_id"`
	CustomerID  int64           `json:"customer_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}

// publisher is the part of pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes wishlist domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the wishlist service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishWishlistCreated publishes a wishlist.created event.
func (p *Producer) PublishWishlistCreated(ctx context.Context, w *domain.Wishlist) error {
	data := WishlistData{ID: w.ID, Name: w.Name, CustomerID: w.CustomerID}
	return p.publish(ctx, TopicWishlistCreated, TypeWishlistCreated, w.ID, data)
}

// PublishWishlistDeleted publishes a wishlist.deleted event.
func (p *Producer) PublishWishlistDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicWishlistDeleted, TypeWishlistDeleted, id, WishlistDeletedData{ID: id})
}

// PublishItemAdded publishes a wishlist.item_added event.
func (p *Producer) PublishItemAdded(ctx context.Context, item *domain.Item) error {
	data := ItemData{
		WishlistID:  item.WishlistID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
	}
	return p.publish(ctx, TopicItemAdded, TypeItemAdded, item.WishlistID, data)
}

// PublishItemMovedToCart publishes a wishlist.item_moved_to_cart event.
func (p *Producer) PublishItemMovedToCart(ctx context.Context, item *domain.Item, customerID int64, price decimal.Decimal) error {
	data := ItemMovedToCartData{
		WishlistID:  item.WishlistID,
		CustomerID:  customerID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Price:       price,
	}
	return p.publish(ctx, TopicItemMovedToCart, TypeItemMovedToCart, item.WishlistID, data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, wishlistID int64, data any) error {
	aggregateID := strconv.FormatInt(wishlistID, 10)

	event, err := pkgkafka.NewEvent(eventType, aggregateID, AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.Int64("wishlist_id", wishlistID),
	)

	return nil
}

// NoopPublisher discards every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishWishlistCreated(context.Context, *domain.Wishlist) error { return nil }

func (NoopPublisher) PublishWishlistDeleted(context.Context, int64) error { return nil }

func (NoopPublisher) PublishItemAdded(context.Context, *domain.Item) error { return nil }

func (NoopPublisher) PublishItemMovedToCart(context.Context, *domain.Item, int64, decimal.Decimal) error {
	return nil
}
