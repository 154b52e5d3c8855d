package ingest

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPFetcher_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetchConfig{TimeoutSeconds: 5, MaxRetries: 2})
	f.AllowPrivate = true
	f.backoff = time.Millisecond

	doc, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer doc.Body.Close()

	body, _ := io.ReadAll(doc.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", body)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", hits.Load())
	}
}

func TestHTTPFetcher_PermanentStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetchConfig{TimeoutSeconds: 5, MaxRetries: 3})
	f.AllowPrivate = true
	f.backoff = time.Millisecond

	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected no retries, got %d requests", hits.Load())
	}
}

func TestHTTPFetcher_BlocksPrivateAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetchConfig{TimeoutSeconds: 5})
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected loopback fetch to be blocked")
	}
}

func TestHTTPFetcher_RejectsNonHTTP(t *testing.T) {
	f := NewHTTPFetcher(FetchConfig{})
	if _, err := f.Fetch(context.Background(), "file:///etc/passwd"); err == nil {
		t.Fatal("expected error for file URL")
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"192.168.0.10", true},
		{"100.64.0.1", true},
		{"::1", true},
		{"8.8.8.8", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tt := range tests {
		if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.expected {
			t.Errorf("isPrivateIP(%s): expected %v, got %v", tt.ip, tt.expected, got)
		}
	}
}
