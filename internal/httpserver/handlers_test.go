package httpserver

import (
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massitfab/marketplace/internal/models"
)

func TestGetProfile_PaginatesProducts(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("sandy")
	for i := 0; i < 7; i++ {
		env.createProduct(u.ID, "p", "1")
		time.Sleep(2 * time.Millisecond)
	}

	rec := env.doJSONRequest(http.MethodGet, "/u/get/SANDY?page=2&page_size=3", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, MsgSuccess, body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "sandy", data["username"])
	assert.Equal(t, models.DefaultProfilePicture, data["profile_picture"])

	list := data["list"].(map[string]any)
	assert.EqualValues(t, 2, list["page"])
	assert.EqualValues(t, 3, list["page_size"])
	assert.EqualValues(t, math.Ceil(7.0/3.0), list["num_pages"])
	assert.EqualValues(t, 7, list["total_count"])
	assert.Len(t, data["related_products"], 3)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSONRequest(http.MethodGet, "/u/get/nobody", nil, 0)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, MsgUserNotFound, body["message"])
	assert.NotContains(t, body, "data")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("sandy")

	rec := env.doMultipartRequest(http.MethodPut, "/u/update", map[string]string{"summary": "hello"}, nil, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doMultipartRequest(http.MethodPut, "/u/update", map[string]string{"summary": "hello"}, nil, 999)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgProfileForbidden, decode(t, rec)["message"])

	rec = env.doMultipartRequest(http.MethodPut, "/u/update",
		map[string]string{"username": "sandra", "summary": "hello"},
		[]upload{{field: "profile_picture", name: "me.png", body: "png"}}, u.ID)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, MsgProfileUpdated, decode(t, rec)["message"])

	got, err := env.Repo.UserByID(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "sandra", got.Username)
	assert.Equal(t, "public/img/me.png", got.ProfilePicture)
	_, err = os.Stat(filepath.Join(env.MediaRoot, "public", "img", "me.png"))
	assert.NoError(t, err)
}

func TestProduct_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("owner")

	rec := env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{
		"title": "Hat", "description": "Red hat", "subcategory_id": "1", "st_price": "9.99",
	}, nil, owner.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, MsgProductCreated, body["message"])
	id := uint(body["id"].(float64))

	rec = env.doJSONRequest(http.MethodGet, "/content/get/"+itoa(id), nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, 9.99, data["price"])
	assert.Equal(t, []any{}, data["gallery"])
	assert.Equal(t, []any{}, data["link"])
	assert.NotEmpty(t, data["published"])

	rec = env.doMultipartRequest(http.MethodPut, "/content/update/"+itoa(id), map[string]string{"st_price": "19.99"}, nil, owner.ID)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, MsgProductUpdated, decode(t, rec)["message"])

	rec = env.doJSONRequest(http.MethodGet, "/content/get/"+itoa(id), nil, 0)
	data = decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Hat", data["title"])
	assert.Equal(t, "Red hat", data["description"])
	assert.Equal(t, 19.99, data["price"])
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("owner")

	rec := env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{"title": "Hat"}, nil, u.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{
		"title": "Hat", "description": "d", "subcategory_id": "1", "st_price": "-1",
	}, nil, u.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{
		"title": "Hat", "description": "d", "subcategory_id": "1",
	}, nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct_WithGalleryAndSources(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("owner")

	rec := env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{
		"title": "Hat", "description": "d", "subcategory_id": "1", "source": "https://a&https://b",
	}, []upload{{field: "resource", name: "a.png", body: "a"}, {field: "resource", name: "b.png", body: "b"}}, u.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := uint(decode(t, rec)["id"].(float64))

	data := decode(t, env.doJSONRequest(http.MethodGet, "/content/get/"+itoa(id), nil, 0))["data"].(map[string]any)
	assert.Equal(t, []any{"public/img/a.png", "public/img/b.png"}, data["gallery"])
	assert.Equal(t, []any{"https://a", "https://b"}, data["link"])

	rec = env.doMultipartRequest(http.MethodPut, "/content/update/"+itoa(id), map[string]string{
		"resource_deleted": "public/img/a.png",
	}, nil, u.ID)
	require.Equal(t, http.StatusAccepted, rec.Code)
	_, err := os.Stat(filepath.Join(env.MediaRoot, "public", "img", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateAndDeleteProduct_RequireOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("owner")
	other := env.user("other")
	id := env.createProduct(owner.ID, "Hat", "1")

	rec := env.doMultipartRequest(http.MethodPut, "/content/update/"+itoa(id), map[string]string{"title": "mine"}, nil, other.ID)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgProductForbidden, decode(t, rec)["message"])

	rec = env.doJSONRequest(http.MethodDelete, "/content/delete/"+itoa(id), nil, other.ID)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodDelete, "/content/delete/"+itoa(id), nil, owner.ID)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, MsgProductDeleted, decode(t, rec)["message"])

	rec = env.doJSONRequest(http.MethodGet, "/content/get/"+itoa(id), nil, 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var p models.Product
	require.NoError(t, env.DB.First(&p, id).Error)
	assert.True(t, p.IsRemoved)
}

func TestGetProducts_Listing(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("owner")
	for _, title := range []string{"a", "b", "c"} {
		env.createProduct(u.ID, title, "1")
		time.Sleep(2 * time.Millisecond)
	}

	rec := env.doJSONRequest(http.MethodGet, "/content/get?page=1&page_size=2", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	items := body["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].(map[string]any)["title"])

	pg := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pg["total_count"])
	assert.EqualValues(t, 2, pg["page_count"])
}

func TestSearchProducts_NeverReturnsRemoved(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("owner")
	live := env.createProduct(u.ID, "Red hat", "1")
	gone := env.createProduct(u.ID, "Blue hat", "1")
	require.Equal(t, http.StatusCreated, env.doJSONRequest(http.MethodDelete, "/content/delete/"+itoa(gone), nil, u.ID).Code)

	for _, kw := range []string{"hat", "HAT", "blue", ""} {
		rec := env.doJSONRequest(http.MethodGet, "/content/search?keyword="+kw, nil, 0)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]any)
		for _, it := range data["products"].([]any) {
			assert.NotEqual(t, float64(gone), it.(map[string]any)["id"], kw)
		}
	}

	data := decode(t, env.doJSONRequest(http.MethodGet, "/content/search?keyword=hat&limit=5", nil, 0))["data"].(map[string]any)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, float64(live), products[0].(map[string]any)["id"])
	assert.Equal(t, "Red hat", products[0].(map[string]any)["name"])
	pg := data["pagination"].(map[string]any)
	assert.EqualValues(t, 5, pg["limit"])
	assert.EqualValues(t, 1, pg["total_count"])
}

func TestWishlist_ToggleTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("buyer")
	id := env.createProduct(u.ID, "Hat", "4.5")

	rec := env.doJSONRequest(http.MethodPost, "/u/wishlist/toggle", map[string]any{"product_id": id}, u.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, MsgWishlistAdded, body["message"])
	assert.NotZero(t, body["wishlist_id"])

	list := decode(t, env.doJSONRequest(http.MethodGet, "/u/wishlist/get", nil, u.ID))
	assert.EqualValues(t, 1, list["total_items"])
	assert.EqualValues(t, 10, list["page_size"])
	assert.EqualValues(t, 1, list["page_number"])
	item := list["data"].([]any)[0].(map[string]any)
	assert.Equal(t, 4.5, item["st_price"])

	rec = env.doJSONRequest(http.MethodPost, "/u/wishlist/toggle", map[string]any{"product_id": id}, u.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgWishlistRemoved, decode(t, rec)["message"])

	list = decode(t, env.doJSONRequest(http.MethodGet, "/u/wishlist/get", nil, u.ID))
	assert.EqualValues(t, 0, list["total_items"])

	rec = env.doJSONRequest(http.MethodPost, "/u/wishlist/toggle", map[string]any{"product_id": 4040}, u.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgWishlistNoProduct, decode(t, rec)["message"])
}

func TestReviews(t *testing.T) {
	env := newTestEnv(t)
	author := env.user("author")
	other := env.user("other")

	rec := env.doJSONRequest(http.MethodPost, "/review/create/777", map[string]any{"score": 5}, author.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var count int64
	require.NoError(t, env.DB.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)

	id := env.createProduct(author.ID, "Hat", "1")

	rec = env.doJSONRequest(http.MethodPost, "/review/create/"+itoa(id), map[string]any{"comment": "no score"}, author.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/review/create/"+itoa(id), map[string]any{"score": 4, "comment": "nice"}, author.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 4, data["score"])
	assert.Equal(t, "nice", data["comment"])
	reviewID := uint(data["id"].(float64))

	rec = env.doJSONRequest(http.MethodDelete, "/review/delete/"+itoa(reviewID), nil, other.ID)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, env.DB.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec = env.doJSONRequest(http.MethodDelete, "/review/delete/"+itoa(reviewID), nil, author.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgReviewDeleted, decode(t, rec)["message"])

	rec = env.doJSONRequest(http.MethodDelete, "/review/delete/"+itoa(reviewID), nil, author.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReview_FormBody(t *testing.T) {
	env := newTestEnv(t)
	author := env.user("author")
	id := env.createProduct(author.ID, "Hat", "1")

	rec := env.doMultipartRequest(http.MethodPost, "/review/create/"+itoa(id),
		map[string]string{"score": "3", "comment": "fine"}, nil, author.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["score"])
	assert.Equal(t, "fine", data["comment"])

	form := url.Values{"score": {"5"}}
	req := httptest.NewRequest(http.MethodPost, "/review/create/"+itoa(id), strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, author.ID))
	rec = httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data = decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 5, data["score"])
	assert.Nil(t, data["comment"])

	rec = env.doMultipartRequest(http.MethodPost, "/review/create/"+itoa(id),
		map[string]string{"comment": "no score"}, nil, author.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReviews_CursorPages(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("author")
	id := env.createProduct(u.ID, "Hat", "1")
	for i := 0; i < 25; i++ {
		rec := env.doJSONRequest(http.MethodPost, "/review/create/"+itoa(id), map[string]any{"score": i % 5}, u.ID)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	body := decode(t, env.doJSONRequest(http.MethodGet, "/review/get/"+itoa(id)+"?limit=20&cursor=0", nil, 0))
	assert.Equal(t, MsgSuccessPlain, body["message"])
	items := body["data"].([]any)
	require.Len(t, items, 20)
	pg := body["pagination"].(map[string]any)
	assert.Equal(t, true, pg["has_next"])
	assert.Equal(t, items[19].(map[string]any)["id"], pg["cursor"])

	cursor := uint(pg["cursor"].(float64))
	body = decode(t, env.doJSONRequest(http.MethodGet, "/review/get/"+itoa(id)+"?cursor="+itoa(cursor), nil, 0))
	items = body["data"].([]any)
	require.Len(t, items, 5)
	pg = body["pagination"].(map[string]any)
	assert.Equal(t, false, pg["has_next"])
	assert.Equal(t, items[4].(map[string]any)["id"], pg["cursor"])

	body = decode(t, env.doJSONRequest(http.MethodGet, "/review/get/"+itoa(id)+"?cursor="+itoa(cursor+100), nil, 0))
	assert.Empty(t, body["data"])
	assert.Nil(t, body["pagination"].(map[string]any)["cursor"])
}

func TestCart(t *testing.T) {
	env := newTestEnv(t)
	u := env.user("buyer")
	a := env.createProduct(u.ID, "A", "2.5")
	b := env.createProduct(u.ID, "B", "1.25")

	rec := env.doJSONRequest(http.MethodPost, "/cart/checkout", nil, u.ID)
	require.Equal(t, http.StatusNotFound, rec.Code)

	for _, id := range []uint{a, b, b} {
		rec := env.doJSONRequest(http.MethodPost, "/cart/toggle/"+itoa(id), nil, u.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, MsgCartAdded, body["message"])
		assert.EqualValues(t, u.ID, body["user_id"])
		assert.EqualValues(t, id, body["product_id"])
	}

	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodDelete, "/cart/remove/"+itoa(b), nil, u.ID).Code)

	cart := decode(t, env.doJSONRequest(http.MethodGet, "/cart/get", nil, u.ID))["data"].(map[string]any)
	assert.Len(t, cart["items"], 2)
	assert.Equal(t, 3.75, cart["total"])

	rec = env.doJSONRequest(http.MethodPost, "/cart/checkout", nil, u.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "new", order["status"])
	assert.Equal(t, 3.75, order["total"])

	cart = decode(t, env.doJSONRequest(http.MethodGet, "/cart/get", nil, u.ID))["data"].(map[string]any)
	assert.Empty(t, cart["items"])

	rec = env.doJSONRequest(http.MethodDelete, "/cart/remove/"+itoa(a), nil, u.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/cart/get", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCategoriesAndHealth(t *testing.T) {
	env := newTestEnv(t)
	parent := models.Category{Name: "Art"}
	require.NoError(t, env.DB.Create(&parent).Error)
	require.NoError(t, env.DB.Create(&models.Category{Name: "Prints", ParentID: &parent.ID}).Error)

	rec := env.doJSONRequest(http.MethodGet, "/category/get", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Prints", items[1].(map[string]any)["name"])

	assert.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/live", nil, 0).Code)
	assert.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/ready", nil, 0).Code)
}

func TestAuth_InvalidTokenReason(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSONRequest(http.MethodGet, "/u/wishlist/get", nil, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header is missing", decode(t, rec)["message"])
}
