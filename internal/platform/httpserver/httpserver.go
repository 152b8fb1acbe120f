package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project. A full
// screening run takes minutes, so the write timeout is derived from the
// request timeout rather than fixed.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
