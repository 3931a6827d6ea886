package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	called := false
	handler := RequestLogger(logging.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Fatal("wrapped handler was not called")
	}
	if w.Code != http.StatusTeapot {
		t.Fatalf("middleware altered status: %d", w.Code)
	}
}

func TestRequestLoggerNilLogger(t *testing.T) {
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
