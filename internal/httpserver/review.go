package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

type reviewItem struct {
	ID        uint      `json:"id"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_review")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("create_review_error", "status", 404, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}
	l = l.With("user_id", uid, "product_id", productID)

	var req transport.CreateReviewRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_review_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	rv, err := h.Svc.Create(ctx, uid, productID, req.Score.Value, req.CommentOrNil())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("create_review_error", "status", 404, "reason", "product does not exist")
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		}
		l.Error("create_review_error", "status", 500, "reason", "cannot create review", "error", err, "payload", req)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternalAlt)
	}

	l.Info("create_review_success", "review_id", rv.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":          rv.ID,
			"score":       rv.Score,
			"comment":     rv.Comment,
			"fab_user_id": rv.FabUserID,
			"product_id":  rv.ProductID,
			"created_at":  rv.CreatedAt,
		},
		"message": MsgSuccess,
	})
}

func (h *ReviewHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_reviews")

	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("get_reviews_error", "status", 404, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}
	limit := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultReviewLimit)
	cursor := queryUint(c, "cursor")

	feed, err := h.Svc.Feed(ctx, productID, cursor, limit)
	if err != nil {
		l.Error("get_reviews_error", "status", 500, "reason", "cannot read reviews", "product_id", productID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgServerError)
	}

	items := make([]reviewItem, 0, len(feed.Items))
	for _, rv := range feed.Items {
		items = append(items, reviewItem{
			ID:        rv.ID,
			Score:     rv.Score,
			Comment:   rv.Comment,
			UserID:    rv.FabUserID,
			CreatedAt: rv.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"pagination": map[string]any{
			"has_next": feed.HasNext,
			"cursor":   feed.Cursor,
		},
		"message": MsgSuccessPlain,
	})
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_review")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		l.Warn("delete_review_error", "status", 404, "reason", "bad review id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, MsgReviewNotFound)
	}
	l = l.With("user_id", uid, "review_id", reviewID)

	if err := h.Svc.Delete(ctx, uid, reviewID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("delete_review_error", "status", 404, "reason", MsgReviewNotFound)
			return echo.NewHTTPError(http.StatusNotFound, MsgReviewNotFound)
		case errors.Is(err, service.ErrUnauthorized):
			l.Warn("delete_review_error", "status", 401, "reason", "not the author", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
		}
		l.Error("delete_review_error", "status", 500, "reason", "cannot delete review", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternalAlt)
	}

	l.Info("delete_review_success")
	return c.JSON(http.StatusOK, map[string]any{"message": MsgReviewDeleted})
}
