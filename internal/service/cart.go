package service

import (
	"context"
	"fmt"

	"github.com/massitfab/marketplace/internal/events"
	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/pkg/logging"
	"github.com/shopspring/decimal"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type Cart struct {
	Lines []repo.CartLine
	Total decimal.Decimal
}

// Add records one add-to-cart action. Products are not checked and duplicates are kept.
func (s *CartService) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item := &models.CartItem{FabUserID: userID, ProductID: productID}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicCart, Type: events.CartAdded, UserID: userID, ProductID: productID,
	})
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	if _, err := s.Repo.RemoveCartItem(ctx, userID, productID); err != nil {
		return notFound(err, "cart item")
	}
	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicCart, Type: events.CartRemoved, UserID: userID, ProductID: productID,
	})
	return nil
}

func (s *CartService) Get(ctx context.Context, userID uint) (Cart, error) {
	lines, err := s.Repo.CartLines(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.StPrice)
	}
	return Cart{Lines: lines, Total: total}, nil
}

// Checkout turns the caller's cart into an order and removes the ordered lines in one transaction.
func (s *CartService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines, err := tx.CartLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrNotFound)
		}

		o := &models.Order{FabUserID: userID, Status: models.OrderStatusNew, Total: decimal.Zero}
		consumed := make([]uint, 0, len(lines))
		for _, l := range lines {
			o.Items = append(o.Items, models.OrderItem{ProductID: l.ProductID, Title: l.Title, Price: l.StPrice})
			o.Total = o.Total.Add(l.StPrice)
			consumed = append(consumed, l.ID)
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		// Lines of removed products stay in the cart.
		if _, err := tx.DeleteCartItems(ctx, userID, consumed); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicCart, Type: events.OrderCreated, UserID: userID, Payload: order,
	})
	return order, nil
}
