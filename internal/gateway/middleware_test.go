package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soyeahso/moodai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := loggingMiddleware(okHandler(), logging.New(nil, "silent"), nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestLoggingMiddleware_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	mux := http.NewServeMux()
	mux.Handle("GET /api/chat/{id}", okHandler())
	handler := loggingMiddleware(mux, logging.New(nil, "silent"), m)

	for _, id := range []string{"a", "b", "c"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/chat/"+id, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `moodai_http_requests_total{method="GET",path="/api/chat/{id}",status="200"} 3`)
}

func TestRouteLabel(t *testing.T) {
	r := httptest.NewRequest("GET", "/x", nil)
	assert.Equal(t, "unmatched", routeLabel(r))
	r.Pattern = "GET /api/chat/history"
	assert.Equal(t, "/api/chat/history", routeLabel(r))
	r.Pattern = "/"
	assert.Equal(t, "/", routeLabel(r))
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := requestIDMiddleware(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "custom-id-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "custom-id-123", rr.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"deny when unconfigured", nil, "http://evil.com", ""},
		{"wildcard", []string{"*"}, "http://any.com", "http://any.com"},
		{"specific match", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
		{"specific miss", []string{"http://localhost:5173"}, "http://evil.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := corsMiddleware(okHandler(), tt.allowed, "X-Moodai-User")
			req := httptest.NewRequest("GET", "/api/chat/history", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.want != "" {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Moodai-User")
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
			}
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := corsMiddleware(inner, []string{"*"}, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/chat/send", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, called)
}

func TestWithMiddleware(t *testing.T) {
	handler := withMiddleware(okHandler(), logging.New(nil, "silent"), []string{"http://app.test"}, "X-Moodai-User", nil)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://app.test")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://app.test", rr.Header().Get("Access-Control-Allow-Origin"))
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}
