package service

import (
	"context"
	"errors"

	"github.com/massitfab/marketplace/internal/events"
	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
	"gorm.io/gorm"
)

type WishlistService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type ToggleResult struct {
	Added      bool
	WishlistID uint
}

// Toggle removes the (user, product) row when present and inserts it otherwise.
// When a concurrent toggle inserts the same pair first, the pair is reported as added.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint) (ToggleResult, error) {
	var res ToggleResult
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.ProductByID(ctx, productID); err != nil {
			return notFound(err, "product")
		}

		existing, err := tx.FindWishlist(ctx, userID, productID)
		switch {
		case err == nil:
			res = ToggleResult{Added: false, WishlistID: existing.ID}
			return tx.DeleteWishlist(ctx, existing.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		w := &models.Wishlist{FabUserID: userID, ProductID: productID}
		if err := tx.CreateWishlist(ctx, w); err != nil {
			return err
		}
		res = ToggleResult{Added: true, WishlistID: w.ID}
		return nil
	})
	if err != nil {
		if !repo.IsUniqueViolation(err) {
			return ToggleResult{}, err
		}
		w, ferr := s.Repo.FindWishlist(ctx, userID, productID)
		if ferr != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Added: true, WishlistID: w.ID}, nil
	}

	typ := events.WishlistRemoved
	if res.Added {
		typ = events.WishlistAdded
	}
	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicWishlist, Type: typ, UserID: userID, ProductID: productID,
	})
	return res, nil
}

func (s *WishlistService) List(ctx context.Context, userID uint, page, size int) (Page[repo.WishlistItem], error) {
	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.WishlistProducts(ctx, userID, offset, limit)
	if err != nil {
		return Page[repo.WishlistItem]{}, err
	}
	return Page[repo.WishlistItem]{Items: items, Page: page, Size: limit, Total: total, NumPages: util.NumPages(total, limit)}, nil
}
