package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(metrics bool) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(Options{
		Port:           8080,
		RequestTimeout: time.Second,
		AllowedOrigins: []string{"https://gamefo.example"},
		Metrics:        metrics,
	}, logger)
	s.Router.Get("/api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	})
	s.Router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return s
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(false)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(true)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/games/42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, "gamefo_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
	if !strings.Contains(body, `route="/api/games/{id}"`) {
		t.Errorf("Expected route pattern label, got:\n%s", body)
	}
	if strings.Contains(body, `route="/api/games/42"`) {
		t.Error("Raw path must not be used as a label")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	s := newTestServer(false)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when metrics are disabled, got %d", rec.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(false)

	req := httptest.NewRequest("OPTIONS", "/api/games/1", nil)
	req.Header.Set("Origin", "https://gamefo.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://gamefo.example" {
		t.Errorf("Expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest("GET", "/api/games/1", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}

func TestServer_RecoversPanics(t *testing.T) {
	s := newTestServer(false)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", rec.Code)
	}
}

func TestServer_HTTPServer(t *testing.T) {
	s := newTestServer(false)

	hs := s.HTTPServer(10 * time.Second)
	if hs.Addr != ":8080" {
		t.Errorf("Addr = %s", hs.Addr)
	}
	if hs.WriteTimeout <= 10*time.Second {
		t.Errorf("WriteTimeout %v should exceed the request timeout", hs.WriteTimeout)
	}
	if hs.ErrorLog == nil {
		t.Error("Expected ErrorLog to be set")
	}
}
