package repo

import (
	"context"

	"github.com/massitfab/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type WishlistItem struct {
	ID      uint
	Title   string
	StPrice decimal.Decimal
}

func (r *GormRepo) FindWishlist(ctx context.Context, userID, productID uint) (*models.Wishlist, error) {
	var w models.Wishlist
	if err := r.DB.WithContext(ctx).Where("fab_user_id = ? AND product_id = ?", userID, productID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *GormRepo) CreateWishlist(ctx context.Context, w *models.Wishlist) error {
	return r.DB.WithContext(ctx).Create(w).Error
}

func (r *GormRepo) DeleteWishlist(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Wishlist{}, id).Error
}

// WishlistProducts pages through a user's wishlist, newest entry first.
func (r *GormRepo) WishlistProducts(ctx context.Context, userID uint, offset, limit int) (int64, []WishlistItem, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Wishlist{}).Where("fab_user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]WishlistItem, 0, limit)
	if err := r.DB.WithContext(ctx).
		Table("product").
		Select("product.id AS id, product.title AS title, product.st_price AS st_price").
		Joins("JOIN wishlist ON wishlist.product_id = product.id").
		Where("wishlist.fab_user_id = ?", userID).
		Order("wishlist.created_at DESC, wishlist.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
