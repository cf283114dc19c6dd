package service

import (
	"context"
	"fmt"

	"github.com/massitfab/marketplace/internal/events"
	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
)

const DefaultReviewLimit = 20

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type ReviewFeed struct {
	Items   []models.Review
	HasNext bool
	Cursor  *uint
}

func (s *ReviewService) Create(ctx context.Context, userID, productID uint, score int, comment *string) (*models.Review, error) {
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}

	rv := &models.Review{Score: score, Comment: comment, FabUserID: userID, ProductID: productID}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicReview, Type: events.ReviewCreated, UserID: userID, ProductID: productID, Payload: rv,
	})
	return rv, nil
}

// Feed returns reviews after cursor in id order. One extra row is read to decide HasNext.
func (s *ReviewService) Feed(ctx context.Context, productID, cursor uint, limit int) (ReviewFeed, error) {
	if limit < 1 {
		limit = DefaultReviewLimit
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}

	items, err := s.Repo.ReviewsAfter(ctx, productID, cursor, limit+1)
	if err != nil {
		return ReviewFeed{}, err
	}

	feed := ReviewFeed{Items: items}
	if len(items) > limit {
		feed.Items = items[:limit]
		feed.HasNext = true
	}
	if n := len(feed.Items); n > 0 {
		last := feed.Items[n-1].ID
		feed.Cursor = &last
	}
	return feed, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uint) error {
	rv, err := s.Repo.ReviewByID(ctx, reviewID)
	if err != nil {
		return notFound(err, "review")
	}
	if rv.FabUserID != userID {
		return fmt.Errorf("%w: review %d is not authored by %d", ErrUnauthorized, reviewID, userID)
	}

	n, err := s.Repo.DeleteReview(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}

	events.Emit(ctx, s.Events, logging.FromContext(ctx), events.Event{
		Topic: events.TopicReview, Type: events.ReviewDeleted, UserID: userID, ProductID: rv.ProductID,
	})
	return nil
}
