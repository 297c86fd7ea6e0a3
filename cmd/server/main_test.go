package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-unicms"
	"github.com/goliatone/go-unicms/internal/logging"
)

func TestNewAppServesPublicAPI(t *testing.T) {
	cfg := unicms.DefaultConfig()
	cfg.Logging.Provider = "none"
	cfg.HTTP.CORSOrigins = []string{"https://university.example.kg"}

	module, err := unicms.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close()

	app, err := newApp(module, cfg, logging.NoOp())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	req.Header.Set("Origin", "https://university.example.kg")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://university.example.kg" {
		t.Fatalf("expected cors header, got %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if payload["default"] != "ru" {
		t.Fatalf("unexpected languages payload %v", payload)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/college_card", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected missing tab filter to be 400, got %d", resp.StatusCode)
	}
}

func TestNewAppHealth(t *testing.T) {
	cfg := unicms.DefaultConfig()
	cfg.Logging.Provider = "none"
	module, err := unicms.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close()

	app, err := newApp(module, cfg, logging.NoOp())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
