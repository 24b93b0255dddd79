package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGetWithRetryRecoversFromServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithCoalesceGrace(0))
	var out map[string]any
	if err := c.GetWithRetry(context.Background(), "/v1/rfps", &out, 3); err != nil {
		t.Fatalf("GetWithRetry: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGetWithRetrySkipsClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad filter","code":"BAD_FILTER"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithCoalesceGrace(0))
	if err := c.GetWithRetry(context.Background(), "/v1/rfps", nil, 5); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", calls)
	}
}

func TestGetWithRetryExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithCoalesceGrace(0))
	if err := c.GetWithRetry(context.Background(), "/v1/rfps", nil, 2); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}
