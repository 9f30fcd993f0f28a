package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medibot-api/config"
	"github.com/giygas/medibot-api/data"
	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/extractor"
	"github.com/giygas/medibot-api/knowledge"
	"github.com/giygas/medibot-api/oracle/oracletest"
	"github.com/giygas/medibot-api/resolver"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	stub := oracletest.NewStub(map[string]entities.OracleFacts{
		"warfarin":  oracletest.Recognized("Warfarin", "", []string{"aspirin"}, nil),
		"aspirin":   oracletest.Recognized("Aspirin", "", []string{"warfarin"}, nil),
		"ibuprofen": oracletest.Recognized("Ibuprofen", "", []string{"Aspirin"}, []string{"Naproxen"}),
	})
	status := data.NewStatusContainer(knowledge.Default(), "rest")
	s := NewServer(testConfig(), status, extractor.New(stub), resolver.New(knowledge.Default(), stub))
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func TestNewServer(t *testing.T) {
	cfg := testConfig()
	status := data.NewStatusContainer(knowledge.Default(), "disabled")
	s := NewServer(cfg, status, extractor.New(nil), resolver.New(knowledge.Default(), nil))
	defer s.rateLimiter.Stop()

	if s.server.Addr != cfg.Address+":"+cfg.Port {
		t.Errorf("Expected server address %s, got %s", cfg.Address+":"+cfg.Port, s.server.Addr)
	}
	if s.status != status {
		t.Error("Status container should be set correctly")
	}
	if s.config != cfg {
		t.Error("Config should be set correctly")
	}
	if s.router == nil || s.httpHandler == nil || s.healthChecker == nil || s.rateLimiter == nil {
		t.Error("Server dependencies should not be nil")
	}
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"extract", http.MethodPost, "/extract", `{"text":"Paracetamol 500 mg twice daily"}`, http.StatusOK},
		{"interactions", http.MethodPost, "/check_interactions", `{"drugs":["Warfarin","Aspirin"]}`, http.StatusOK},
		{"dosage", http.MethodPost, "/get_dosage", `{"drug":"paracetamol"}`, http.StatusOK},
		{"alternatives", http.MethodPost, "/suggest_alternatives", `{"drug":"ibuprofen"}`, http.StatusOK},
		{"combined", http.MethodPost, "/get_drug_alternatives_interactions", `{"drug":"ibuprofen"}`, http.StatusOK},
		{"drug list", http.MethodGet, "/drugs", "", http.StatusOK},
		{"drug entry", http.MethodGet, "/drugs/aspirin", "", http.StatusOK},
		{"missing drug", http.MethodGet, "/drugs/zorblax", "", http.StatusNotFound},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"wrong method", http.MethodGet, "/extract", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d (body %s)", tt.method, tt.path, rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/drugs", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Errorf("X-RateLimit-Limit = %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("X-RateLimit-Remaining missing")
	}
}

func TestInteractionsEndToEnd(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/check_interactions", strings.NewReader(`{"drugs":["Warfarin","Aspirin","warfarin"]}`))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	var resp struct {
		Interactions map[string][]string `json:"interactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Interactions) != 2 {
		t.Errorf("expected 2 keys, got %v", resp.Interactions)
	}
	if got := resp.Interactions["warfarin"]; len(got) != 1 || got[0] != "Aspirin" {
		t.Errorf("warfarin = %v", got)
	}
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	s := newTestServer(t)
	s.router.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestServerLifecycle(t *testing.T) {
	s := newTestServer(t)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	// give ListenAndServe a moment to bind
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start returned %v after graceful shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	if s.status.GetServerStartTime().IsZero() {
		t.Error("server start time should be recorded")
	}
}
