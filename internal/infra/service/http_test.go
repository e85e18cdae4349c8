package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

func TestHTTPOperationCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var item domain.WorkItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		json.NewEncoder(w).Encode(map[string]string{"data": "processed:" + item.Payload})
	}))
	defer srv.Close()

	op := NewHTTPOperation(srv.URL, 5*time.Second)
	defer op.Close()

	result, err := op.Call(context.Background(), domain.WorkItem{ID: 1, Payload: "hello"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if result != "processed:hello" {
		t.Errorf("result = %q, want processed:hello", result)
	}
}

func TestHTTPOperationServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	op := NewHTTPOperation(srv.URL, 5*time.Second)
	defer op.Close()

	if _, err := op.Call(context.Background(), domain.WorkItem{ID: 1, Payload: "x"}); err == nil {
		t.Error("Call succeeded against a 500 response")
	}
}

func TestHTTPOperationRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	op := NewHTTPOperation(srv.URL, 5*time.Second)
	defer op.Close()

	_, err := op.Call(context.Background(), domain.WorkItem{ID: 1, Payload: "x"})
	if err == nil {
		t.Fatal("Call succeeded against a 429 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error %q does not mention rate limiting", err)
	}
}

func TestHTTPOperationContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	op := NewHTTPOperation(srv.URL, 5*time.Second)
	defer op.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := op.Call(ctx, domain.WorkItem{ID: 1, Payload: "x"}); err == nil {
		t.Error("Call ignored context cancellation")
	}
}

func TestSimulatedOperation(t *testing.T) {
	op := NewSimulatedOperation(0)
	result, err := op.Call(context.Background(), domain.WorkItem{ID: 1, Payload: "echo"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if result != "echo" {
		t.Errorf("result = %q, want echo", result)
	}

	always := NewSimulatedOperation(1.0)
	if _, err := always.Call(context.Background(), domain.WorkItem{ID: 2, Payload: "x"}); err == nil {
		t.Error("failure rate 1.0 produced a success")
	}
}
