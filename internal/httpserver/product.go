package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

type productListItem struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SubcategoryID uint      `json:"subcategory_id"`
	StPrice       float64   `json:"st_price"`
	CreatedAt     time.Time `json:"created_at"`
}

type productDetail struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Schedule    *time.Time `json:"schedule"`
	Owner       uint       `json:"owner"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Categories  uint       `json:"categories"`
	Hashtags    string     `json:"hashtags"`
	Price       float64    `json:"price"`
	Published   time.Time  `json:"published"`
	Edited      time.Time  `json:"edited"`
	Gallery     []string   `json:"gallery"`
	Link        []string   `json:"link"`
}

type searchItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     uint      `json:"creator"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDetail(p *models.Product) productDetail {
	d := productDetail{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Schedule:    p.Schedule,
		Owner:       p.FabUserID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Categories:  p.SubcategoryID,
		Hashtags:    p.Hashtags,
		Price:       p.StPrice.InexactFloat64(),
		Published:   p.CreatedAt,
		Edited:      p.UpdatedAt,
		Gallery:     make([]string, 0, len(p.Gallery)),
		Link:        make([]string, 0, len(p.Routes)),
	}
	for _, g := range p.Gallery {
		d.Gallery = append(d.Gallery, g.Resource)
	}
	for _, r := range p.Routes {
		d.Link = append(d.Link, r.Source)
	}
	return d
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)

	res, err := h.Svc.ListProducts(ctx, page, size)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	items := make([]productListItem, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, productListItem{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			SubcategoryID: p.SubcategoryID,
			StPrice:       p.StPrice.InexactFloat64(),
			CreatedAt:     p.CreatedAt,
		})
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"pagination": map[string]any{
			"total_count": res.Total,
			"page_count":  res.NumPages,
			"page":        res.Page,
			"page_size":   res.Size,
		},
		"message": MsgSuccess,
	})
}

func (h *ProductHTTP) GetProductDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_product_details")

	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("get_product_details_error", "status", 404, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}

	p, err := h.Svc.ProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_details_error", "status", 404, "reason", "removed or missing", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, MsgProductNotFound)
		}
		l.Error("get_product_details_error", "status", 500, "reason", "cannot load product", "product_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": toDetail(p), "message": MsgSuccess})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	l = l.With("user_id", uid)

	var req transport.CreateProductRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	files, err := uploads(c, "resource")
	if err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
	}

	p, err := h.Svc.CreateProduct(ctx, uid, req, files)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err, "payload", req)
			return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
		}
		l.Error("create_product_error", "status", 500, "reason", "cannot create product", "error", err, "payload", req)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, map[string]any{"id": p.ID, "message": MsgProductCreated})
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_product")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("update_product_error", "status", 401, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, MsgProductForbidden)
	}
	l = l.With("user_id", uid, "product_id", id)

	var req transport.UpdateProductRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}
	files, err := uploads(c, "resource")
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
	}

	if _, err := h.Svc.UpdateProduct(ctx, uid, id, req, files); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			l.Warn("update_product_error", "status", 401, "reason", MsgProductForbidden, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgProductForbidden)
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err, "payload", req)
			return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
		}
		l.Error("update_product_error", "status", 500, "reason", "cannot update product", "error", err, "payload", req)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("update_product_success")
	return c.JSON(http.StatusAccepted, map[string]any{"message": MsgProductUpdated})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		l.Warn("delete_product_error", "status", 401, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, MsgProductForbidden)
	}
	l = l.With("user_id", uid, "product_id", id)

	if err := h.Svc.DeleteProduct(ctx, uid, id); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("delete_product_error", "status", 401, "reason", MsgProductForbidden, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgProductForbidden)
		}
		l.Error("delete_product_error", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("delete_product_success")
	return c.JSON(http.StatusCreated, map[string]any{"message": MsgProductDeleted})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	keyword := c.QueryParam("keyword")
	l := logging.FromContext(ctx).With("handler", "search_products", "keyword", keyword)

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, keyword, page, limit)
	if err != nil {
		l.Error("search_products_error", "status", 500, "reason", "cannot search products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	items := make([]searchItem, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, searchItem{
			ID:          p.ID,
			Name:        p.Title,
			Description: p.Description,
			Creator:     p.FabUserID,
			Price:       p.StPrice.InexactFloat64(),
			CreatedAt:   p.CreatedAt,
		})
	}

	l.Info("search_products_success", "total", res.Total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": map[string]any{
			"products": items,
			"pagination": map[string]any{
				"page":        res.Page,
				"limit":       res.Size,
				"total_count": res.Total,
				"total_pages": res.NumPages,
			},
		},
		"message": MsgSuccess,
	})
}

type categoryItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

func (h *ProductHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "reason", "cannot list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	items := make([]categoryItem, 0, len(cats))
	for _, ct := range cats {
		items = append(items, categoryItem{ID: ct.ID, Name: ct.Name, ParentID: ct.ParentID})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "message": MsgSuccess})
}
