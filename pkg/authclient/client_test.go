package authclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/massitfab/marketplace/pkg/tokens"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/verify" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"user_id":5}`))
		case "Bearer expired":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Token has expired"}`))
		case "Bearer empty":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Verify(t *testing.T) {
	srv := newAuthServer(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	id, err := c.Verify(ctx, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)

	cases := map[string]string{
		"Bearer expired": "Token has expired",
		"Bearer other":   tokens.ReasonInvalid,
		"Bearer empty":   tokens.ReasonInvalid,
		"":               tokens.ReasonMissing,
	}
	for header, reason := range cases {
		_, err := c.Verify(ctx, header)
		var ae *tokens.AuthError
		require.True(t, errors.As(err, &ae), "header %q", header)
		assert.Equal(t, reason, ae.Reason, "header %q", header)
	}
}

func TestClient_Verify_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Verify(context.Background(), "Bearer good")
	require.Error(t, err)
	var ae *tokens.AuthError
	assert.False(t, errors.As(err, &ae))
}
