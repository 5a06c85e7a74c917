package net

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// DumpResponse logs the full HTTP response at debug level.
func DumpResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	if b, err := httputil.DumpResponse(resp, true); err == nil {
		slog.Debug("http response", "dump", string(b))
	}
}
