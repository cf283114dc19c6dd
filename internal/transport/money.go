package transport

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an optional price accepted as a JSON number, a JSON string or a form value.
type Money struct {
	Value decimal.Decimal
	Set   bool
}

func (m *Money) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid price %q", s)
	}
	*m = Money{Value: d, Set: true}
	return nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = Money{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = u
	}
	return m.UnmarshalParam(s)
}

func (m Money) OrZero() decimal.Decimal {
	if !m.Set {
		return decimal.Zero
	}
	return m.Value
}

// Score is a required integer accepted as a JSON number, a JSON string or a form value.
// The zero Score means the field was not sent.
type Score struct {
	Value int
	Set   bool
}

func (sc *Score) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*sc = Score{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid score %q", s)
	}
	*sc = Score{Value: n, Set: true}
	return nil
}

func (sc *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*sc = Score{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = u
	}
	return sc.UnmarshalParam(s)
}
