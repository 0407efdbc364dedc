package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"whoishistory/internal/config"
	"whoishistory/internal/utils"
)

func TestNewServer(t *testing.T) {
	// Unreachable database: the page must fail cleanly through the error handler.
	_ = os.Setenv("DATABASE_URL", "postgres://localhost:1/whoishistory?sslmode=disable")
	_ = os.Setenv("CACHE_ENABLED", "false")
	defer func() {
		_ = os.Unsetenv("DATABASE_URL")
		_ = os.Unsetenv("CACHE_ENABLED")
	}()

	// Change to project root so templates can be found
	_ = os.Chdir("../../")

	utils.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	e, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if e == nil {
		t.Fatal("NewServer returned nil")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 with no database, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "500") {
		t.Error("Error page does not contain expected status code 500")
	}

	// Unknown routes go through the same error handler.
	t.Run("HTTPErrorHandler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "404") {
			t.Error("Error page does not contain expected status code 404")
		}
	})
}
