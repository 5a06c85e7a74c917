package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.Timeout)

	// non-positive timeouts fall back to the default
	assert.Equal(t, TimeoutDefault, NewHTTPClient(0).Timeout)
	assert.Equal(t, TimeoutDefault, NewHTTPClient(-1).Timeout)
}

func TestGetOAuthClient(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := GetOAuthClient(context.Background(), "test-token", time.Second)
	assert.Equal(t, time.Second, c.Timeout)

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer test-token", got)
}
