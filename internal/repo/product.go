package repo

import (
	"context"
	"strings"

	"github.com/massitfab/marketplace/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ProductDetail loads a live product with its gallery and routes.
func (r *GormRepo) ProductDetail(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Routes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND is_removed = ?", id, false).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductByID finds a product whether or not it has been soft deleted.
func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) OwnedProduct(ctx context.Context, id, ownerID uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ? AND fab_user_id = ?", id, ownerID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts the product together with its Routes and Gallery rows.
func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) PatchProduct(ctx context.Context, id, ownerID uint, cols map[string]any) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND fab_user_id = ?", id, ownerID).
		Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) AddRoutes(ctx context.Context, productID uint, sources []string) error {
	if len(sources) == 0 {
		return nil
	}
	rows := make([]models.Route, 0, len(sources))
	for _, s := range sources {
		rows = append(rows, models.Route{Source: s, ProductID: productID})
	}
	return r.DB.WithContext(ctx).Create(&rows).Error
}

func (r *GormRepo) AddGallery(ctx context.Context, productID uint, resources []string) error {
	if len(resources) == 0 {
		return nil
	}
	rows := make([]models.Gallery, 0, len(resources))
	for _, res := range resources {
		rows = append(rows, models.Gallery{Resource: res, ProductID: productID})
	}
	return r.DB.WithContext(ctx).Create(&rows).Error
}

func (r *GormRepo) DeleteGallery(ctx context.Context, productID uint, resource string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("resource = ? AND product_id = ?", resource, productID).Delete(&models.Gallery{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteRoute(ctx context.Context, productID uint, source string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("source = ? AND product_id = ?", source, productID).Delete(&models.Route{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) SoftDeleteProduct(ctx context.Context, id, ownerID uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND fab_user_id = ?", id, ownerID).
		Update("is_removed", true)
	return res.RowsAffected, res.Error
}

// SearchProducts matches the keyword against titles of live products.
func (r *GormRepo) SearchProducts(ctx context.Context, keyword string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	where := "is_removed = ? AND LOWER(title) LIKE ? ESCAPE '\\'"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(where, false, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where(where, false, pattern).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
