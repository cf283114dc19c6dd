package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/massitfab/marketplace/internal/models"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/storage"
	loggingmw "github.com/massitfab/marketplace/pkg/middleware/logging"
	"github.com/massitfab/marketplace/pkg/tokens"
)

var testSecret = []byte("handler-test-secret")

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Repo      *repo.GormRepo
	MediaRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	require.NoError(t, err)

	r := repo.New(db)
	e := echo.New()
	e.Validator = NewValidator()
	e.Use(loggingmw.RequestLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))

	Register(e, &Deps{
		Profile:  &ProfileHTTP{Svc: &service.ProfileService{Repo: r, Store: store}},
		Product:  &ProductHTTP{Svc: &service.ProductService{Repo: r, Store: store}},
		Wishlist: &WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		Review:   &ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Cart:     &CartHTTP{Svc: &service.CartService{Repo: r}},
		Verifier: tokens.NewJWTVerifier(testSecret),
		DB:       r,
	})

	return &testEnv{T: t, E: e, DB: db, Repo: r, MediaRoot: root}
}

func (env *testEnv) user(name string) *models.User {
	env.T.Helper()
	u := &models.User{Username: name, ProfilePicture: models.DefaultProfilePicture}
	require.NoError(env.T, env.DB.Create(u).Error)
	return u
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func (env *testEnv) doJSONRequest(method, path string, body any, userID uint) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(env.T, userID))
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

type upload struct {
	field, name, body string
}

func (env *testEnv) doMultipartRequest(method, path string, fields map[string]string, files []upload, userID uint) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(env.T, err)
		_, err = fw.Write([]byte(f.body))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if userID != 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(env.T, userID))
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) createProduct(owner uint, title string, price string) uint {
	env.T.Helper()
	rec := env.doMultipartRequest(http.MethodPost, "/content/create", map[string]string{
		"title": title, "description": title + " description", "subcategory_id": "1", "st_price": price,
	}, nil, owner)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return uint(decode(env.T, rec)["id"].(float64))
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
