package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/massitfab/marketplace/pkg/tokens"
)

// Client asks a remote auth service to verify a caller's token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(authServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type VerifyResponse struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

// Verify forwards the Authorization header to {base}/auth/verify.
// A 200 with a user_id authenticates; any other status is rejected with the
// service's message when it sends one.
func (c *Client) Verify(ctx context.Context, authorization string) (uint, error) {
	if strings.TrimSpace(authorization) == "" {
		return 0, &tokens.AuthError{Reason: tokens.ReasonMissing}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify", nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var result VerifyResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode != http.StatusOK {
		reason := result.Message
		if reason == "" {
			reason = tokens.ReasonInvalid
		}
		return 0, &tokens.AuthError{Reason: reason, Err: fmt.Errorf("verify status: %d", resp.StatusCode)}
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("decode response: %w", decodeErr)
	}
	if result.UserID == 0 {
		return 0, &tokens.AuthError{Reason: tokens.ReasonInvalid}
	}
	return result.UserID, nil
}
