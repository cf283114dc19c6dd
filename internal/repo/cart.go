package repo

import (
	"context"

	"github.com/massitfab/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID        uint
	ProductID uint
	Title     string
	StPrice   decimal.Decimal
}

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// RemoveCartItem deletes a single cart row of the (user, product) pair.
func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, productID uint) (int64, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("fab_user_id = ? AND product_id = ?", userID, productID).
		Order("id ASC").
		First(&item).Error; err != nil {
		return 0, err
	}
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, item.ID)
	return res.RowsAffected, res.Error
}

// CartLines lists a user's cart rows that still point at live products.
func (r *GormRepo) CartLines(ctx context.Context, userID uint) ([]CartLine, error) {
	var lines []CartLine
	if err := r.DB.WithContext(ctx).
		Table("customer").
		Select("customer.id AS id, product.id AS product_id, product.title AS title, product.st_price AS st_price").
		Joins("JOIN product ON product.id = customer.product_id").
		Where("customer.fab_user_id = ? AND product.is_removed = ?", userID, false).
		Order("customer.id ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteCartItems removes the given cart rows of one user.
func (r *GormRepo) DeleteCartItems(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Where("fab_user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// CreateOrder inserts the order and its items.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}
