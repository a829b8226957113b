package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func TestRateLimiter_Allow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request within the interval should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("bucket should refill after the interval")
	}
}

func newEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/text", handler)
	r.GET("/doc/pdf", handler)
	return r
}

func TestBrotli_CompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("\\noindent 12 + 34 = \\underline{\\hspace{3cm}}\n", 100)
	r := newEngine(func(c *gin.Context) { c.String(http.StatusOK, body) })

	req := httptest.NewRequest(http.MethodGet, "/text", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decode brotli: %v", err)
	}
	if string(plain) != body {
		t.Error("decoded body differs from original")
	}
}

func TestBrotli_SkipsSmallBodiesAndPDFs(t *testing.T) {
	large := bytes.Repeat([]byte("%PDF"), 1000)
	r := newEngine(func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, "/pdf") {
			c.Data(http.StatusOK, "application/pdf", large)
			return
		}
		c.String(http.StatusOK, "short")
	})

	for _, path := range []string{"/text", "/doc/pdf"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Content-Encoding"); got != "" {
			t.Errorf("%s: Content-Encoding = %q, want none", path, got)
		}
	}
}

func TestNoStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Cache-Control"); got != "private, no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
