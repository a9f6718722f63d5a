// Package httpserver wraps http.Server construction so timeouts stay in one place.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with bounded read/write timeouts. Handler-level
// timeouts are applied separately by middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
