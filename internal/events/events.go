package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	TopicProduct  = "product_events"
	TopicReview   = "review_events"
	TopicWishlist = "wishlist_events"
	TopicCart     = "cart_events"
)

const (
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	ReviewCreated   = "review_created"
	ReviewDeleted   = "review_deleted"
	WishlistAdded   = "wishlist_added"
	WishlistRemoved = "wishlist_removed"
	CartAdded       = "cart_added"
	CartRemoved     = "cart_removed"
	OrderCreated    = "order_created"
)

type Event struct {
	Topic     string    `json:"-"`
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// ProductDoc is the searchable projection of a product.
type ProductDoc struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FabUserID     uint      `json:"fab_user_id"`
	SubcategoryID uint      `json:"subcategory_id"`
	Hashtags      string    `json:"hashtags"`
	StPrice       float64   `json:"st_price"`
	CreatedAt     time.Time `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes after a commit. Failures are logged and never reach the caller.
func Emit(ctx context.Context, p Publisher, log *slog.Logger, ev Event) {
	if p == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil && log != nil {
		log.Warn("event_publish_failed", "topic", ev.Topic, "type", ev.Type, "error", err)
	}
}
