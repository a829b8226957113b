package texlive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCompile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("filename[]"); got != "document.tex" {
			t.Errorf("filename[] = %q, want document.tex", got)
		}
		if got := r.FormValue("filecontents[]"); got != `\documentclass{article}` {
			t.Errorf("filecontents[] = %q", got)
		}
		if got := r.FormValue("return"); got != "pdf" {
			t.Errorf("return = %q, want pdf", got)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.5 fake"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	out, err := c.Compile(context.Background(), `\documentclass{article}`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if string(out) != "%PDF-1.5 fake" {
		t.Errorf("Compile() = %q", out)
	}
}

func TestCompile_LogInsteadOfPDF(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("! Undefined control sequence." + strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Compile(context.Background(), `\bad`)
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("Compile() error = %v, want ErrCompileFailed", err)
	}
	if !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("error should carry the log, got %v", err)
	}
	if len(err.Error()) > 600 {
		t.Errorf("error message not truncated: %d bytes", len(err.Error()))
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("compile errors must not be retried, got %d calls", got)
	}
}

func TestCompile_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.5"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Compile(context.Background(), "x"); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestNewClient_DefaultURL(t *testing.T) {
	c := NewClient("", time.Second)
	if c.url != DefaultURL {
		t.Errorf("url = %q, want %q", c.url, DefaultURL)
	}
}
