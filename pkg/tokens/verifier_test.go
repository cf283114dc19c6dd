package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestJWTVerifier_Verify(t *testing.T) {
	t.Parallel()

	future := jwt.NewNumericDate(time.Now().Add(15 * time.Minute))
	past := jwt.NewNumericDate(time.Now().Add(-time.Minute))

	withUserID := sign(t, jwt.SigningMethodHS256, testSecret, AccessClaims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
	})
	withSubject := sign(t, jwt.SigningMethodHS256, testSecret, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", ExpiresAt: future},
	})
	expired := sign(t, jwt.SigningMethodHS256, testSecret, AccessClaims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past},
	})
	wrongSecret := sign(t, jwt.SigningMethodHS256, []byte("other"), AccessClaims{UserID: 7})
	wrongAlg := sign(t, jwt.SigningMethodHS512, testSecret, AccessClaims{UserID: 7})
	noUser := sign(t, jwt.SigningMethodHS256, testSecret, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc", ExpiresAt: future},
	})

	tests := []struct {
		name       string
		header     string
		wantID     uint
		wantReason string
	}{
		{name: "bearer with user_id", header: "Bearer " + withUserID, wantID: 7},
		{name: "bare token", header: withUserID, wantID: 7},
		{name: "lowercase scheme", header: "bearer " + withSubject, wantID: 42},
		{name: "missing header", header: "", wantReason: ReasonMissing},
		{name: "expired", header: "Bearer " + expired, wantReason: ReasonExpired},
		{name: "wrong secret", header: "Bearer " + wrongSecret, wantReason: ReasonInvalid},
		{name: "wrong alg", header: "Bearer " + wrongAlg, wantReason: ReasonInvalid},
		{name: "no user id", header: "Bearer " + noUser, wantReason: ReasonInvalid},
		{name: "garbage", header: "Bearer not-a-jwt", wantReason: ReasonInvalid},
	}

	v := NewJWTVerifier(testSecret)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := v.Verify(context.Background(), tt.header)
			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				return
			}
			require.Error(t, err)
			var ae *AuthError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.wantReason, ae.Reason)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("  BEARER   abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}
