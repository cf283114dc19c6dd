package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

type wishlistItem struct {
	ID      uint    `json:"id"`
	Title   string  `json:"title"`
	StPrice float64 `json:"st_price"`
}

func (h *WishlistHTTP) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_to_wishlist")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	l = l.With("user_id", uid)

	var req transport.WishlistToggleRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("add_to_wishlist_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	res, err := h.Svc.Toggle(ctx, uid, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_to_wishlist_error", "status", 404, "reason", "product does not exist", "product_id", req.ProductID)
			return echo.NewHTTPError(http.StatusNotFound, MsgWishlistNoProduct)
		}
		l.Error("add_to_wishlist_error", "status", 500, "reason", "cannot toggle wishlist", "error", err, "payload", req)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgWishlistFailed)
	}

	if !res.Added {
		l.Info("add_to_wishlist_success", "removed", true, "product_id", req.ProductID)
		return c.JSON(http.StatusOK, map[string]any{"message": MsgWishlistRemoved})
	}
	l.Info("add_to_wishlist_success", "wishlist_id", res.WishlistID, "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, map[string]any{"wishlist_id": res.WishlistID, "message": MsgWishlistAdded})
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_wishlist")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	l = l.With("user_id", uid)

	size := util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)
	page := util.ParseIntDefault(c.QueryParam("page_number"), 1)

	res, err := h.Svc.List(ctx, uid, page, size)
	if err != nil {
		l.Error("get_wishlist_error", "status", 500, "reason", "cannot read wishlist", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgWishlistReadFail)
	}

	items := make([]wishlistItem, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, wishlistItem{ID: it.ID, Title: it.Title, StPrice: it.StPrice.InexactFloat64()})
	}

	l.Info("get_wishlist_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data":        items,
		"total_items": res.Total,
		"page_size":   res.Size,
		"page_number": res.Page,
		"message":     MsgSuccess,
	})
}
