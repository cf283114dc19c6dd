package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrNotFound     = errors.New("not found")    // 404
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// Page is one offset page of a listing.
type Page[T any] struct {
	Items    []T
	Page     int
	Size     int
	Total    int64
	NumPages int64
}

// splitJoined splits an &-joined value and drops empty segments.
func splitJoined(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, "&")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
