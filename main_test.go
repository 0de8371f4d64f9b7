package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/leaderchess/api"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Leader Chess Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

// parseOptions runs the root command with args and captures the options it resolves
func parseOptions(t *testing.T, args ...string) (options, error) {
	t.Helper()
	app := newApp()
	var got options
	var optErr error
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		got, optErr = optionsFrom(cmd)
		return nil
	}
	if err := app.Run(context.Background(), append([]string{"leaderchess"}, args...)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return got, optErr
}

func TestFlagDefaults(t *testing.T) {
	o, err := parseOptions(t)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.port != 8080 {
		t.Errorf("Expected default port 8080, got %d", o.port)
	}
	if o.host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", o.host)
	}
	if o.configDir != "configs" {
		t.Errorf("Expected default config dir configs, got %s", o.configDir)
	}
	if o.highlight != 0 || o.ngrok || o.debug {
		t.Errorf("Expected optional features off, got %+v", o)
	}
}

func TestFlags(t *testing.T) {
	o, err := parseOptions(t, "--port", "9090", "--highlight-ms", "250", "--config-dir", "presets")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.port != 9090 || o.addr() != "localhost:9090" {
		t.Errorf("Expected port 9090, got %d (%s)", o.port, o.addr())
	}
	if o.highlight != 250*time.Millisecond {
		t.Errorf("Expected 250ms highlight, got %v", o.highlight)
	}
	if o.configDir != "presets" {
		t.Errorf("Expected presets dir, got %s", o.configDir)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTH_TOKEN", "secret")
	t.Setenv("HIGHLIGHT_MS", "1000")

	o, err := parseOptions(t)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.addr() != "0.0.0.0:7070" {
		t.Errorf("Expected address from env, got %s", o.addr())
	}
	if !o.ngrok || o.ngrokAuth != "secret" {
		t.Errorf("Expected ngrok settings from env, got %+v", o)
	}
	if o.highlight != time.Second {
		t.Errorf("Expected 1s highlight, got %v", o.highlight)
	}
}

func TestFlagValidation(t *testing.T) {
	if _, err := parseOptions(t, "--port", "70000"); err == nil {
		t.Error("Expected error for out of range port")
	}
	if _, err := parseOptions(t, "--highlight-ms=-5"); err == nil {
		t.Error("Expected error for negative highlight")
	}
}

func TestInitializeServices(t *testing.T) {
	svcs, err := initializeServices(options{configDir: "configs"}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	configs, err := svcs.game.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 4 {
		t.Errorf("Expected 4 shipped presets, got %d", len(configs))
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices(options{configDir: "/non/existent/path"}, nil); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	svcs, err := initializeServices(options{configDir: "configs", highlight: time.Hour}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()
	ctx := context.Background()

	info, err := svcs.game.CreateSession(ctx, "compact")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	svcs.game.StartGame(ctx, info.ID)
	if _, err := svcs.game.Move(ctx, info.ID, engine.Position{Row: 5, Col: 1}, engine.Position{Row: 4, Col: 1}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !svcs.scheduler.IsPending(info.ID) {
		t.Fatal("Expected a pending highlight clear after the move")
	}

	if n := cleanupExpiredSessions(svcs, time.Hour); n != 0 {
		t.Errorf("Expected fresh session kept, removed %d", n)
	}
	if n := cleanupExpiredSessions(svcs, -time.Second); n != 1 {
		t.Errorf("Expected stale session removed, removed %d", n)
	}
	if svcs.scheduler.IsPending(info.ID) {
		t.Error("Expected pending clear cancelled with the session")
	}
	if _, err := svcs.game.GetSession(ctx, info.ID); err == nil {
		t.Error("Expected session gone")
	}
}

func TestRouter(t *testing.T) {
	svcs, err := initializeServices(options{configDir: "configs"}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	router := newRouter(api.NewServer(svcs.game, nil), mcp.NewClient("http://localhost:0"))

	t.Run("api mounted at root", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("mcp lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON, got %s", ct)
		}
		for _, tool := range []string{"create_session", "move", "set_dimensions"} {
			if !strings.Contains(w.Body.String(), `"name":"`+tool+`"`) {
				t.Errorf("Expected tool %s in %s", tool, w.Body.String())
			}
		}
	})
}

func TestAPIAvailable(t *testing.T) {
	svcs, err := initializeServices(options{configDir: "configs"}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	ts := httptest.NewServer(api.NewServer(svcs.game, nil))
	if !apiAvailable(ts.URL) {
		t.Error("Expected API available")
	}
	ts.Close()
	if apiAvailable(ts.URL) {
		t.Error("Expected closed server unavailable")
	}
}

func TestStartInternalAPI(t *testing.T) {
	svcs, err := initializeServices(options{configDir: "configs"}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	baseURL, httpServer, err := startInternalAPI(svcs.game, nil)
	if err != nil {
		t.Fatalf("startInternalAPI failed: %v", err)
	}
	defer httpServer.Close()

	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("Expected loopback URL, got %s", baseURL)
	}
	if !apiAvailable(baseURL) {
		t.Error("Expected internal API to answer")
	}
}
