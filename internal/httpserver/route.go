package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/massitfab/marketplace/pkg/middleware/auth"
	"github.com/massitfab/marketplace/pkg/tokens"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Profile  *ProfileHTTP
	Product  *ProductHTTP
	Wishlist *WishlistHTTP
	Review   *ReviewHTTP
	Cart     *CartHTTP
	Verifier tokens.Verifier
	DB       Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB != nil {
			if err := d.DB.Ping(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	auth := authmw.RequireAuth(d.Verifier)

	u := e.Group("/u")
	u.GET("/get/:username", d.Profile.GetProfile)
	u.PUT("/update", d.Profile.UpdateProfile, auth)
	u.POST("/wishlist/toggle", d.Wishlist.Toggle, auth)
	u.GET("/wishlist/get", d.Wishlist.GetWishlist, auth)

	content := e.Group("/content")
	content.GET("/get", d.Product.GetProducts)
	content.GET("/get/:id", d.Product.GetProductDetails)
	content.GET("/search", d.Product.SearchProducts)
	content.POST("/create", d.Product.CreateProduct, auth)
	content.PUT("/update/:id", d.Product.UpdateProduct, auth)
	content.DELETE("/delete/:id", d.Product.DeleteProduct, auth)

	review := e.Group("/review")
	review.GET("/get/:product_id", d.Review.GetReviews)
	review.POST("/create/:product_id", d.Review.CreateReview, auth)
	review.DELETE("/delete/:review_id", d.Review.DeleteReview, auth)

	cart := e.Group("/cart", auth)
	cart.POST("/toggle/:product_id", d.Cart.AddToCart)
	cart.DELETE("/remove/:product_id", d.Cart.RemoveFromCart)
	cart.POST("/checkout", d.Cart.Checkout)
	cart.GET("/get", d.Cart.GetCart)

	e.GET("/category/get", d.Product.GetCategories)
}
