package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/massitfab/marketplace/internal/storage"
	authmw "github.com/massitfab/marketplace/pkg/middleware/auth"
)

func pathID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(v), nil
}

func queryUint(c echo.Context, name string) uint {
	v, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// callerID returns the id stored by the auth middleware.
func callerID(c echo.Context) (uint, error) {
	id, ok := authmw.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
	}
	return id, nil
}

// uploads returns the files sent under field. Non-multipart requests carry none.
func uploads(c echo.Context, field string) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return storage.FromMultipartList(form.File[field]), nil
}
