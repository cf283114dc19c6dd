package tokens

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier turns an Authorization header into an authenticated user id.
type Verifier interface {
	Verify(ctx context.Context, authorization string) (uint, error)
}

// AuthError carries a reason that is safe to show to the caller.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

const (
	ReasonMissing = "Authorization header is missing"
	ReasonInvalid = "Invalid token"
	ReasonExpired = "Token has expired"
)

func BearerToken(authorization string) string {
	v := strings.TrimSpace(authorization)
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return v
}

type JWTVerifier struct {
	Secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{Secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, authorization string) (uint, error) {
	raw := BearerToken(authorization)
	if raw == "" {
		return 0, &AuthError{Reason: ReasonMissing}
	}

	claims, err := AccessClaimsFromToken(raw, v.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, &AuthError{Reason: ReasonExpired, Err: err}
		}
		return 0, &AuthError{Reason: ReasonInvalid, Err: err}
	}

	id, err := claims.ID()
	if err != nil {
		return 0, &AuthError{Reason: ReasonInvalid, Err: err}
	}
	return id, nil
}
