package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/home"
)

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatal(err)
	}

	srv, err := New(Config{
		BackendURL: backendURL,
		Home:       h,
		Logger:     slog.Default(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func TestServerRouting(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer backend.Close()

	handler := newTestServer(t, backend.URL).Handler()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("got %d", rec.Code)
		}
	})

	t.Run("ready reaches the backend through injected services", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("document list starts empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/documents", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d", rec.Code)
		}
		var resp struct {
			Documents []json.RawMessage `json:"documents"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(resp.Documents) != 0 {
			t.Errorf("expected no documents, got %d", len(resp.Documents))
		}
	})

	t.Run("merged export refuses before two completions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/export/claims.json", nil))
		if rec.Code != http.StatusConflict {
			t.Errorf("got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "at least two completed documents") {
			t.Errorf("got %s", rec.Body.String())
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d", rec.Code)
		}
	})
}

func TestServerDefaults(t *testing.T) {
	srv := newTestServer(t, "http://localhost:5000")
	if srv.Addr() != "127.0.0.1:8080" {
		t.Errorf("got %s", srv.Addr())
	}
	if srv.IsRunning() {
		t.Error("server should not report running before Start")
	}
}
