package repo

import (
	"context"

	"github.com/massitfab/marketplace/internal/models"
)

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id uint, cols map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols).Error
}

// ProductsByOwner pages through every product of a user, removed ones included.
func (r *GormRepo) ProductsByOwner(ctx context.Context, ownerID uint, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("fab_user_id = ?", ownerID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("fab_user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
