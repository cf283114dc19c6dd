package repo

import (
	"context"

	"github.com/massitfab/marketplace/internal/models"
)

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

// ReviewsAfter returns up to limit reviews of a product with id greater than cursor.
func (r *GormRepo) ReviewsAfter(ctx context.Context, productID, cursor uint, limit int) ([]models.Review, error) {
	items := make([]models.Review, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("product_id = ? AND id > ?", productID, cursor).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormRepo) DeleteReview(ctx context.Context, id, authorID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ? AND fab_user_id = ?", id, authorID).Delete(&models.Review{})
	return res.RowsAffected, res.Error
}
