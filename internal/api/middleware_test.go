package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddleware(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = r.Context().Value(RequestIDKey).(string)
	})

	handler := RequestIDMiddleware()(next)
	req := httptest.NewRequest(http.MethodGet, "/timeline", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("request id missing from context")
	}
	if len(captured) != 8 {
		t.Errorf("request id length = %d, want 8", len(captured))
	}
	if got := w.Header().Get("X-Request-ID"); got != captured {
		t.Errorf("X-Request-ID header = %q, context = %q", got, captured)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Error != "clip not found" || resp.Code != "NOT_FOUND" {
		t.Errorf("body = %+v", resp)
	}
}
