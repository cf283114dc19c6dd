package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

type cartLine struct {
	CartID    uint    `json:"cart_id"`
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	StPrice   float64 `json:"st_price"`
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_product_to_cart")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("add_product_to_cart_error", "status", 400, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
	}
	l = l.With("user_id", uid, "product_id", productID)

	item, err := h.Svc.Add(ctx, uid, productID)
	if err != nil {
		l.Error("add_product_to_cart_error", "status", 500, "reason", "cannot add to cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("add_product_to_cart_success", "cart_id", item.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"cart_id":    item.ID,
		"user_id":    uid,
		"product_id": productID,
		"message":    MsgCartAdded,
	})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove_from_cart")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
	}
	l = l.With("user_id", uid, "product_id", productID)

	if err := h.Svc.Remove(ctx, uid, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_from_cart_error", "status", 404, "reason", MsgCartItemNotFound)
			return echo.NewHTTPError(http.StatusNotFound, MsgCartItemNotFound)
		}
		l.Error("remove_from_cart_error", "status", 500, "reason", "cannot remove from cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("remove_from_cart_success")
	return c.JSON(http.StatusOK, map[string]any{"message": MsgCartRemoved})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_cart_details")

	uid, err := callerID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.Get(ctx, uid)
	if err != nil {
		l.Error("get_cart_details_error", "status", 500, "reason", "cannot read cart", "user_id", uid, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	lines := make([]cartLine, 0, len(cart.Lines))
	for _, ln := range cart.Lines {
		lines = append(lines, cartLine{CartID: ln.ID, ProductID: ln.ProductID, Title: ln.Title, StPrice: ln.StPrice.InexactFloat64()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":    map[string]any{"items": lines, "total": cart.Total.InexactFloat64()},
		"message": MsgSuccess,
	})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout_cart")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	l = l.With("user_id", uid)

	order, err := h.Svc.Checkout(ctx, uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("checkout_cart_error", "status", 404, "reason", MsgCartEmpty)
			return echo.NewHTTPError(http.StatusNotFound, MsgCartEmpty)
		}
		l.Error("checkout_cart_error", "status", 500, "reason", "cannot create order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	items := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"title":      it.Title,
			"price":      it.Price.InexactFloat64(),
		})
	}

	l.Info("checkout_cart_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":         order.ID,
			"status":     order.Status,
			"total":      order.Total.InexactFloat64(),
			"items":      items,
			"created_at": order.CreatedAt,
		},
		"message": MsgOrderCreated,
	})
}
