package repo

import (
	"context"

	"github.com/massitfab/marketplace/internal/models"
)

func (r *GormRepo) Categories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
