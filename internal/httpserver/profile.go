package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/storage"
	"github.com/massitfab/marketplace/internal/transport"
	"github.com/massitfab/marketplace/internal/util"
	"github.com/massitfab/marketplace/pkg/logging"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

type profileProduct struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StPrice     float64   `json:"st_price"`
	CreatedAt   time.Time `json:"created_at"`
}

type profileList struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	NumPages   int64 `json:"num_pages"`
	TotalCount int64 `json:"total_count"`
}

type profileData struct {
	Username        string           `json:"username"`
	Summary         *string          `json:"summary"`
	ProfilePicture  string           `json:"profile_picture"`
	CreatedAt       time.Time        `json:"created_at"`
	RelatedProducts []profileProduct `json:"related_products"`
	List            profileList      `json:"list"`
}

func (h *ProfileHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")
	l := logging.FromContext(ctx).With("handler", "get_profile", "username", username)

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)

	p, err := h.Svc.GetProfile(ctx, username, page, size)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_profile_error", "status", 404, "reason", MsgUserNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, MsgUserNotFound)
		}
		l.Error("get_profile_error", "status", 500, "reason", "cannot load profile", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	products := make([]profileProduct, 0, len(p.Products.Items))
	for _, it := range p.Products.Items {
		products = append(products, profileProduct{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			StPrice:     it.StPrice.InexactFloat64(),
			CreatedAt:   it.CreatedAt,
		})
	}

	l.Info("get_profile_success")
	return c.JSON(http.StatusOK, map[string]any{
		"data": profileData{
			Username:        p.User.Username,
			Summary:         p.User.Summary,
			ProfilePicture:  p.User.ProfilePicture,
			CreatedAt:       p.User.CreatedAt,
			RelatedProducts: products,
			List: profileList{
				Page:       p.Products.Page,
				PageSize:   p.Products.Size,
				NumPages:   p.Products.NumPages,
				TotalCount: p.Products.Total,
			},
		},
		"message": MsgSuccess,
	})
}

func (h *ProfileHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_profile")

	uid, err := callerID(c)
	if err != nil {
		return err
	}
	l = l.With("user_id", uid)

	var req transport.UpdateProfileRequest
	if err := bindValid(c, &req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	files, err := uploads(c, "profile_picture")
	if err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
	}
	var picture *storage.File
	if len(files) > 0 {
		picture = &files[0]
	}

	if err := h.Svc.UpdateProfile(ctx, uid, req, picture); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			l.Warn("update_profile_error", "status", 401, "reason", MsgProfileForbidden, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgProfileForbidden)
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err, "payload", req)
			return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidInput)
		}
		l.Error("update_profile_error", "status", 500, "reason", "cannot update profile", "error", err, "payload", req)
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}

	l.Info("update_profile_success")
	return c.JSON(http.StatusAccepted, map[string]any{"message": MsgProfileUpdated})
}
