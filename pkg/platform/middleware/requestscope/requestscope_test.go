package requestscope

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"sanctionscan/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var gotID string
	var gotTime time.Time
	handler := middleware.RequestID(Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID = requestcontext.RequestID(r.Context())
		gotTime = requestcontext.Now(r.Context())
	})))

	before := time.Now()
	req := httptest.NewRequest(http.MethodGet, "/sanctions_check", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-123", gotID)
	assert.False(t, gotTime.Before(before))
}
