package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/massitfab/marketplace/internal/cache"
	"github.com/massitfab/marketplace/internal/events"
	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/storage"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
	"gorm.io/gorm"
)

type ProductService struct {
	Repo   *repo.GormRepo
	Store  storage.Store
	Cache  cache.ProductCache
	Events events.Publisher
}

func (s *ProductService) cache() cache.ProductCache {
	if s.Cache == nil {
		return cache.Nop{}
	}
	return s.Cache
}

func (s *ProductService) ListProducts(ctx context.Context, page, size int) (Page[models.Product], error) {
	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListProducts(ctx, offset, limit)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return Page[models.Product]{Items: items, Page: page, Size: limit, Total: total, NumPages: util.NumPages(total, limit)}, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, keyword string, page, size int) (Page[models.Product], error) {
	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.SearchProducts(ctx, keyword, offset, limit)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return Page[models.Product]{Items: items, Page: page, Size: limit, Total: total, NumPages: util.NumPages(total, limit)}, nil
}

// ProductDetail is read through the product cache.
func (s *ProductService) ProductDetail(ctx context.Context, id uint) (*models.Product, error) {
	if b, ok := s.cache().Get(ctx, id); ok {
		var p models.Product
		if err := json.Unmarshal(b, &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.Repo.ProductDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if b, err := json.Marshal(p); err == nil {
		s.cache().Set(ctx, id, b)
	}
	return p, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, userID uint, req transport.CreateProductRequest, files []storage.File) (*models.Product, error) {
	price := req.StPrice.OrZero()
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: st_price must be >= 0", ErrValidation)
	}

	p := &models.Product{
		Title:         req.Title,
		Description:   req.Description,
		FabUserID:     userID,
		SubcategoryID: req.SubcategoryID,
		Hashtags:      req.Hashtags,
		StPrice:       price,
	}
	for _, src := range splitJoined(req.Source) {
		p.Routes = append(p.Routes, models.Route{Source: src})
	}

	var saved []string
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		for _, f := range files {
			path, err := s.Store.Save(ctx, f)
			if err != nil {
				return fmt.Errorf("save %s: %w", f.Name, err)
			}
			saved = append(saved, path)
			p.Gallery = append(p.Gallery, models.Gallery{Resource: path})
		}
		return tx.CreateProduct(ctx, p)
	})
	if err != nil {
		s.discard(ctx, saved)
		return nil, err
	}

	events.Emit(ctx, s.Events, logging.FromContext(ctx), productEvent(events.ProductCreated, userID, p))
	return p, nil
}

// UpdateProduct applies a partial update, removes the listed gallery and route rows
// and adds new ones in one transaction. Files of removed gallery rows are deleted
// after commit.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, id uint, req transport.UpdateProductRequest, files []storage.File) (*models.Product, error) {
	patch := req.Patch()
	if patch.StPrice != nil && patch.StPrice.IsNegative() {
		return nil, fmt.Errorf("%w: st_price must be >= 0", ErrValidation)
	}

	var (
		saved   []string
		removed []string
		updated *models.Product
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.OwnedProduct(ctx, id, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d is not owned by %d", ErrUnauthorized, id, userID)
			}
			return err
		}

		if _, err := tx.PatchProduct(ctx, id, userID, patch.Columns(time.Now().UTC())); err != nil {
			return err
		}

		for _, res := range splitJoined(req.ResourceDeleted) {
			n, err := tx.DeleteGallery(ctx, id, res)
			if err != nil {
				return err
			}
			if n > 0 {
				removed = append(removed, res)
			}
		}
		for _, src := range splitJoined(req.SourceDeleted) {
			if _, err := tx.DeleteRoute(ctx, id, src); err != nil {
				return err
			}
		}

		if err := tx.AddRoutes(ctx, id, splitJoined(req.Source)); err != nil {
			return err
		}
		for _, f := range files {
			path, err := s.Store.Save(ctx, f)
			if err != nil {
				return fmt.Errorf("save %s: %w", f.Name, err)
			}
			saved = append(saved, path)
		}
		if err := tx.AddGallery(ctx, id, saved); err != nil {
			return err
		}

		p, err := tx.OwnedProduct(ctx, id, userID)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		s.discard(ctx, saved)
		return nil, err
	}

	s.discard(ctx, removed)
	s.cache().Invalidate(ctx, id)
	events.Emit(ctx, s.Events, logging.FromContext(ctx), productEvent(events.ProductUpdated, userID, updated))
	return updated, nil
}

// DeleteProduct marks the product removed. Gallery and route rows are kept.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uint) error {
	n, err := s.Repo.SoftDeleteProduct(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d is not owned by %d", ErrUnauthorized, id, userID)
	}

	s.cache().Invalidate(ctx, id)
	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicProduct, Type: events.ProductDeleted, UserID: userID, ProductID: id,
	})
	return nil
}

func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.Categories(ctx)
}

func (s *ProductService) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.Store.Delete(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("blob_delete_failed", "path", p, "error", err)
		}
	}
}

func productEvent(typ string, userID uint, p *models.Product) events.Event {
	return events.Event{
		Topic:     events.TopicProduct,
		Type:      typ,
		UserID:    userID,
		ProductID: p.ID,
		Payload: events.ProductDoc{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			FabUserID:     p.FabUserID,
			SubcategoryID: p.SubcategoryID,
			Hashtags:      p.Hashtags,
			StPrice:       p.StPrice.InexactFloat64(),
			CreatedAt:     p.CreatedAt,
		},
	}
}
