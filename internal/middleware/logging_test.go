package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("passes status through", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/999", nil)
		rr := httptest.NewRecorder()
		Logger(inner).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})

	t.Run("handles write without explicit WriteHeader", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[]"))
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/genres/", nil)
		rr := httptest.NewRecorder()
		Logger(inner).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if rr.Body.String() != "[]" {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})
}

func TestResponseWriter(t *testing.T) {
	t.Run("WriteHeader only captures first call", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusCreated)
		rw.WriteHeader(http.StatusInternalServerError)

		if rw.statusCode != http.StatusCreated {
			t.Errorf("statusCode: got %d, want 201", rw.statusCode)
		}
	})

	t.Run("Write sets default 200 status", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}

		if _, err := rw.Write([]byte("{}")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if rw.statusCode != http.StatusOK || !rw.written {
			t.Errorf("got status %d written %v", rw.statusCode, rw.written)
		}
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromCtx(r.Context())
	}))

	t.Run("generates an id when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		got := rr.Header().Get(RequestIDHeader)
		if len(got) != 36 || strings.Count(got, "-") != 4 {
			t.Errorf("generated id: got %q, want a UUID", got)
		}
		if seen != got {
			t.Errorf("context id %q does not match header %q", seen, got)
		}
	})

	t.Run("propagates the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "trace-abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); got != "trace-abc" {
			t.Errorf("header: got %q, want trace-abc", got)
		}
		if seen != "trace-abc" {
			t.Errorf("context: got %q, want trace-abc", seen)
		}
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(RequestIDHeader); len(got) != 36 {
			t.Errorf("got %q, want a fresh UUID", got)
		}
	})
}
