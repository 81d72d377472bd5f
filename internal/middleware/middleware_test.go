package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/contact-manager/internal/metrics"
)

func TestSecurityHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	SecurityHeaders(false)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(true)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)

	req = httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie{Name: "SESSION", TTL: time.Hour, Secure: true}

	rec := httptest.NewRecorder()
	c.Write(rec, "tok")
	set := rec.Header().Get("Set-Cookie")
	assert.Contains(t, set, "SESSION=tok")
	assert.Contains(t, set, "HttpOnly")
	assert.Contains(t, set, "Secure")
	assert.Contains(t, set, "SameSite=Lax")
	assert.Contains(t, set, "Max-Age=3600")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: "tok"})
	assert.Equal(t, "tok", c.Read(req))
	assert.Empty(t, c.Read(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestID, RequestLogger(log), Metrics(m))
	r.Get("/contacts/edit/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/edit/5", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	id := rec.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)

	line := buf.String()
	assert.Contains(t, line, `"route":"/contacts/edit/{id:[0-9]+}"`)
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"request_id":"`+id+`"`)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/contacts/edit/{id:[0-9]+}", "418")))

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.True(t, strings.Contains(buf.String(), `"route":"unmatched"`))
}
