package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/storage"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
	"gorm.io/gorm"
)

type ProfileService struct {
	Repo  *repo.GormRepo
	Store storage.Store
}

type Profile struct {
	User     *models.User
	Products Page[models.Product]
}

func (s *ProfileService) GetProfile(ctx context.Context, username string, page, size int) (*Profile, error) {
	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user")
	}

	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ProductsByOwner(ctx, user.ID, offset, limit)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User: user,
		Products: Page[models.Product]{
			Items:    items,
			Page:     page,
			Size:     limit,
			Total:    total,
			NumPages: util.NumPages(total, limit),
		},
	}, nil
}

// UpdateProfile rewrites the caller's summary, and username and picture when supplied.
// A new picture is stored before the row is updated; the previous one is removed
// only after commit and never when it is the default placeholder.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, req transport.UpdateProfileRequest, picture *storage.File) error {
	var saved, previous string

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d has no profile", ErrUnauthorized, userID)
			}
			return err
		}

		cols := map[string]any{"summary": nil}
		if req.Summary != "" {
			cols["summary"] = req.Summary
		}
		if req.Username != "" {
			cols["username"] = req.Username
		}
		if picture != nil {
			path, err := s.Store.Save(ctx, *picture)
			if err != nil {
				return fmt.Errorf("save profile picture: %w", err)
			}
			saved, previous = path, user.ProfilePicture
			cols["profile_picture"] = path
		}

		if err := tx.UpdateUser(ctx, userID, cols); err != nil {
			if repo.IsUniqueViolation(err) {
				return fmt.Errorf("%w: username is taken", ErrValidation)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if saved != "" {
			if derr := s.Store.Delete(ctx, saved); derr != nil {
				logging.FromContext(ctx).Warn("blob_compensation_failed", "path", saved, "error", derr)
			}
		}
		return err
	}

	if saved != "" && previous != "" && previous != saved && previous != models.DefaultProfilePicture {
		if err := s.Store.Delete(ctx, previous); err != nil {
			logging.FromContext(ctx).Warn("blob_delete_failed", "path", previous, "error", err)
		}
	}
	return nil
}
