package httpserver

import (
	"net/http"
	"time"
)

// New wraps the portal router in an http.Server. The read-header timeout
// guards the listener against slow-loris clients; per-request deadlines are
// enforced by the router's timeout middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
