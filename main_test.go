package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/playzone-arcade/game/config"
	"github.com/wricardo/playzone-arcade/game/engine"
	"github.com/wricardo/playzone-arcade/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "PlayZone Arcade Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp(nil)

	want := map[string]bool{"server": false, "stdio-mcp": false, "validate-presets": false}
	for _, c := range app.Commands {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected command %s", name)
		}
	}
	if app.Action == nil {
		t.Error("Root command should run the server by default")
	}
}

// runLoadConfig parses args with the global flags and returns the merged config
func runLoadConfig(t *testing.T, args ...string) (config.ServerConfig, error) {
	t.Helper()
	var cfg config.ServerConfig
	cmd := &cli.Command{
		Name:  "test",
		Flags: globalFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig(cmd)
			return err
		},
	}
	err := cmd.Run(context.Background(), append([]string{"test"}, args...))
	return cfg, err
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := runLoadConfig(t)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 8080 {
		t.Errorf("Unexpected default address %s", cfg.Addr())
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.CleanupInterval != time.Hour {
		t.Errorf("Unexpected cleanup defaults ttl=%s interval=%s", cfg.SessionTTL, cfg.CleanupInterval)
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ARCADE_HOST", "0.0.0.0")
	t.Setenv("ARCADE_PORT", "9000")
	t.Setenv("ARCADE_SCORES_DB", "env.db")

	cfg, err := runLoadConfig(t, "--port", "9090", "--scores-db", "", "--seed", "7")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected host from env, got %s", cfg.Host)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port flag to win, got %d", cfg.Port)
	}
	if cfg.ScoresDB != "" {
		t.Errorf("Expected explicit empty scores-db to disable scores, got %q", cfg.ScoresDB)
	}
	if cfg.RNGSeed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.RNGSeed)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	if _, err := runLoadConfig(t, "--port", "70000"); err == nil {
		t.Error("Expected error for out of range port")
	}
	if _, err := runLoadConfig(t, "--ngrok"); err == nil {
		t.Error("Expected error when ngrok has no auth token")
	}
}

func testArcade(t *testing.T, cfg config.ServerConfig) *arcade {
	t.Helper()
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}
	a, err := newArcade(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewArcade(t *testing.T) {
	a := testArcade(t, config.ServerConfig{
		ScoresDB: filepath.Join(t.TempDir(), "scores.db"),
		RNGSeed:  1,
	})

	if a.service == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if a.scores == nil {
		t.Fatal("Expected score store to be opened")
	}

	rr := httptest.NewRecorder()
	a.handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected healthy server, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestNewArcade_WithoutScores(t *testing.T) {
	a := testArcade(t, config.ServerConfig{})

	if a.scores != nil {
		t.Error("Expected no score store without a database path")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/players/alice/scores", nil)
	a.handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected scores to be disabled, got %d", rr.Code)
	}
}

func TestNewArcade_InvalidPresetsFile(t *testing.T) {
	_, err := newArcade(config.ServerConfig{PresetsFile: "/non/existent/presets.yaml"}, zaptest.NewLogger(t))
	if err == nil {
		t.Error("Expected error for a missing presets file")
	}
}

func TestArcade_Cleanup(t *testing.T) {
	a := testArcade(t, config.ServerConfig{SessionTTL: time.Millisecond})

	if _, err := a.service.Start(context.Background(), engine.Snake, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if removed := a.cleanup(); removed != 1 {
		t.Errorf("Expected 1 idle session removed, got %d", removed)
	}
	if a.sessions.Count() != 0 {
		t.Errorf("Expected no sessions left, got %d", a.sessions.Count())
	}
}

func TestRouter_MCPEndpoint(t *testing.T) {
	a := testArcade(t, config.ServerConfig{})
	router := newRouter(a.handler(), mcp.NewClient("http://localhost:0"))

	rr := httptest.NewRecorder()
	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "start_snake") {
		t.Errorf("Expected tool list, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/mcp", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/presets", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected API mounted at root, got %d", rr.Code)
	}
}

func TestStartInternalAPI(t *testing.T) {
	a := testArcade(t, config.ServerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL, err := startInternalAPI(ctx, a)
	if err != nil {
		t.Fatalf("startInternalAPI failed: %v", err)
	}
	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("Expected loopback URL, got %s", baseURL)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !apiAvailable(baseURL) {
		if time.Now().After(deadline) {
			t.Fatal("internal API never became available")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAPIAvailable_NoServer(t *testing.T) {
	if apiAvailable("http://127.0.0.1:1") {
		t.Error("Expected no API on a closed port")
	}
}

func TestValidatePresetFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("max_attempts: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("memory_sides:\n  easy: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := validatePresetFiles(&buf, []string{good}); err != nil {
		t.Fatalf("Expected valid presets, got %v", err)
	}
	if !strings.Contains(buf.String(), "✅ VALID") || !strings.Contains(buf.String(), "in 5 attempts") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	err := validatePresetFiles(&buf, []string{good, bad})
	if err == nil || err.Error() != "1 of 2 preset files are invalid" {
		t.Errorf("Expected one invalid file, got %v", err)
	}
	if !strings.Contains(buf.String(), "must be even") {
		t.Errorf("Expected the validation reason in output:\n%s", buf.String())
	}
}

func TestValidatePresetsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("snake:\n  grid_size: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	app := newApp(nil)
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"arcade", "validate-presets", path}); err != nil {
		t.Fatalf("validate-presets failed: %v", err)
	}
	if !strings.Contains(buf.String(), "30x30 grid") {
		t.Errorf("Expected snake preset in output:\n%s", buf.String())
	}

	t.Setenv("ARCADE_PRESETS_FILE", "")
	app = newApp(nil)
	app.Writer = &bytes.Buffer{}
	if err := app.Run(context.Background(), []string{"arcade", "validate-presets"}); err == nil {
		t.Error("Expected error when no presets file is given")
	}
}
