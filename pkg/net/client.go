package net

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TimeoutDefault bounds outbound calls unless the caller overrides it.
const TimeoutDefault = 30 * time.Second

// NewHTTPClient returns a client with the given total-request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = TimeoutDefault
	}
	return &http.Client{Timeout: timeout}
}

// GetOAuthClient returns a client that sends the static bearer token with
// every request, bounded by the given timeout.
func GetOAuthClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "Bearer",
			AccessToken: token,
		},
	)
	c := oauth2.NewClient(ctx, ts)
	if timeout <= 0 {
		timeout = TimeoutDefault
	}
	c.Timeout = timeout
	return c
}
