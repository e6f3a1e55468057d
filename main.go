// Command arcade starts the PlayZone Arcade server.
//
// It supports three commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, metrics, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate-presets" – checks preset YAML files and exits
//
// Settings come from ARCADE_* environment variables (optionally from a .env
// file). Flags override them when given. Ngrok tunneling is available for
// easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/playzone-arcade/api"
	"github.com/wricardo/playzone-arcade/game/config"
	"github.com/wricardo/playzone-arcade/game/rng"
	"github.com/wricardo/playzone-arcade/game/scores"
	"github.com/wricardo/playzone-arcade/game/service"
	"github.com/wricardo/playzone-arcade/game/session"
	"github.com/wricardo/playzone-arcade/transport/mcp"
	"github.com/wricardo/playzone-arcade/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "PlayZone Arcade Server"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	if err := newApp(envErr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. envErr is the result of loading .env and
// is reported once a logger exists.
func newApp(envErr error) *cli.Command {
	serverCmd := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run HTTP server with API, WebSocket, metrics, and MCP endpoint",
		Action:  withArcade(envErr, runHTTPServer),
	}

	return &cli.Command{
		Name:    "arcade",
		Usage:   AppName,
		Version: Version,
		Flags:   globalFlags(),
		Action:  serverCmd.Action,
		Commands: []*cli.Command{
			serverCmd,
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  withLogger(envErr, runStdioMCP),
			},
			{
				Name:      "validate-presets",
				Usage:     "Validate preset YAML files",
				ArgsUsage: "[FILE...]",
				Action:    runValidatePresets,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Usage: "HTTP server host (ARCADE_HOST)"},
		&cli.IntFlag{Name: "port", Usage: "HTTP server port (ARCADE_PORT)"},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging (ARCADE_DEBUG)"},
		&cli.StringFlag{Name: "presets-file", Usage: "YAML file with difficulty presets (ARCADE_PRESETS_FILE)"},
		&cli.StringFlag{Name: "scores-db", Usage: "SQLite score database path, empty disables scores (ARCADE_SCORES_DB)"},
		&cli.Int64Flag{Name: "seed", Usage: "Fixed random seed for reproducible games (ARCADE_RNG_SEED)"},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel (NGROK_ENABLED)"},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (NGROK_AUTHTOKEN)"},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (NGROK_DOMAIN)"},
	}
}

// loadConfig reads the environment and applies flags that were set
func loadConfig(cmd *cli.Command) (config.ServerConfig, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("presets-file") {
		cfg.PresetsFile = cmd.String("presets-file")
	}
	if cmd.IsSet("scores-db") {
		cfg.ScoresDB = cmd.String("scores-db")
	}
	if cmd.IsSet("seed") {
		cfg.RNGSeed = cmd.Int64("seed")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.NgrokToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.NgrokDomain = cmd.String("ngrok-domain")
	}

	return cfg, cfg.Validate()
}

// newLogger writes to stderr so stdio MCP keeps stdout to itself
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func logEnvLoad(logger *zap.Logger, envErr error) {
	switch {
	case envErr == nil:
		logger.Info("Loaded environment variables from .env file")
	case !errors.Is(envErr, os.ErrNotExist):
		logger.Warn("Error loading .env file", zap.Error(envErr))
	}
}

type loggedAction func(ctx context.Context, cfg config.ServerConfig, logger *zap.Logger) error

func withLogger(envErr error, fn loggedAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		logEnvLoad(logger, envErr)
		logger.Info("Starting "+AppName, zap.String("version", Version), zap.String("command", cmd.Name))
		return fn(ctx, cfg, logger)
	}
}

func withArcade(envErr error, fn func(ctx context.Context, a *arcade) error) cli.ActionFunc {
	return withLogger(envErr, func(ctx context.Context, cfg config.ServerConfig, logger *zap.Logger) error {
		a, err := newArcade(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer a.Close()
		return fn(ctx, a)
	})
}

// arcade holds the wired services behind every HTTP surface
type arcade struct {
	cfg      config.ServerConfig
	logger   *zap.Logger
	sessions *session.Manager
	service  service.GameService
	scores   *scores.Store
	hub      *websocket.Hub
}

// newArcade wires config, sessions, randomness, scores and the game service
func newArcade(cfg config.ServerConfig, logger *zap.Logger) (*arcade, error) {
	configManager, err := config.NewManager(cfg.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	var src rng.Source
	if cfg.RNGSeed != 0 {
		logger.Info("Using fixed random seed", zap.Int64("seed", cfg.RNGSeed))
		src = rng.New(cfg.RNGSeed)
	} else if src, err = rng.NewFromCrypto(); err != nil {
		return nil, err
	}

	a := &arcade{
		cfg:      cfg,
		logger:   logger,
		sessions: session.NewManager(),
		hub:      websocket.NewHub(logger),
	}
	a.service = service.NewGameService(a.sessions, configManager, src, logger)

	if cfg.ScoresDB != "" {
		if a.scores, err = scores.New(cfg.ScoresDB); err != nil {
			return nil, fmt.Errorf("failed to open score store: %w", err)
		}
		logger.Info("Score store ready", zap.String("path", cfg.ScoresDB))
	}

	return a, nil
}

// Start runs the hub and the idle session cleanup until ctx ends
func (a *arcade) Start(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.cleanupLoop(ctx)
}

func (a *arcade) Close() error {
	if a.scores != nil {
		return a.scores.Close()
	}
	return nil
}

// handler returns the REST API server
func (a *arcade) handler() *api.Server {
	var store api.ScoreStore
	if a.scores != nil {
		store = a.scores
	}
	return api.NewServer(a.service, a.hub, store, a.logger)
}

// cleanupLoop periodically removes sessions that have not been accessed
// within the configured TTL.
func (a *arcade) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cleanup()
		}
	}
}

func (a *arcade) cleanup() int {
	removed := a.sessions.CleanupExpiredSessions(a.cfg.SessionTTL)
	if removed > 0 {
		a.logger.Info("Cleaned up expired sessions", zap.Int("removed", removed))
	}
	return removed
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the API at root next to the /mcp endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(mcpClient))
	return router
}

// runHTTPServer starts the HTTP server and, when enabled, an ngrok tunnel
// serving the same router. It returns after a graceful shutdown.
func runHTTPServer(ctx context.Context, a *arcade) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start(ctx)

	addr := a.cfg.Addr()
	router := newRouter(a.handler(), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		a.logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<game_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	if a.cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.serveNgrok(ctx, router)
		}()
	}

	<-ctx.Done()
	a.logger.Info("Shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	a.logger.Info("Server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// serveNgrok exposes handler through an ngrok tunnel until ctx ends
func (a *arcade) serveNgrok(ctx context.Context, handler http.Handler) {
	a.logger.Info("Starting ngrok tunnel...")

	tunnel := ngrokConfig.HTTPEndpoint()
	if a.cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(a.cfg.NgrokDomain))
		a.logger.Info("Using custom ngrok domain", zap.String("domain", a.cfg.NgrokDomain))
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(a.cfg.NgrokToken))
	if err != nil {
		a.logger.Error("Failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			a.logger.Warn("Failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	a.logger.Info("Ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		a.logger.Error("Ngrok server error", zap.Error(err))
	}
	a.logger.Info("Ngrok tunnel closed")
}

// apiAvailable reports whether an arcade API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// startInternalAPI serves the arcade API on a random loopback port
func startInternalAPI(ctx context.Context, a *arcade) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	a.Start(ctx)
	httpServer := &http.Server{Handler: a.handler()}

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Internal HTTP server error", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	return "http://" + listener.Addr().String(), nil
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening
// on the configured address, otherwise it starts an internal one.
func runStdioMCP(ctx context.Context, cfg config.ServerConfig, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	baseURL := "http://" + cfg.Addr()
	logger.Info("Checking for external API server", zap.String("url", baseURL))

	if apiAvailable(baseURL) {
		logger.Info("External API server found, using it for MCP", zap.String("url", baseURL))
	} else {
		logger.Info("No external API server found, starting internal HTTP server")

		a, err := newArcade(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer a.Close()

		if baseURL, err = startInternalAPI(ctx, a); err != nil {
			return err
		}
		logger.Info("Internal HTTP server ready", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runValidatePresets checks each file given, or the configured presets file
func runValidatePresets(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		path := cmd.String("presets-file")
		if path == "" {
			path = os.Getenv("ARCADE_PRESETS_FILE")
		}
		if path == "" {
			return fmt.Errorf("no presets file given")
		}
		files = []string{path}
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	return validatePresetFiles(w, files)
}

func validatePresetFiles(w io.Writer, files []string) error {
	invalid := 0
	for _, file := range files {
		fmt.Fprintf(w, "\n==================== %s\n", file)

		manager, err := config.NewManager(file)
		if err != nil {
			invalid++
			fmt.Fprintln(w, "❌ INVALID")
			fmt.Fprintf(w, "  ❌ %v\n", err)
			continue
		}

		fmt.Fprintln(w, "✅ VALID")
		for _, p := range manager.ListPresets() {
			fmt.Fprintf(w, "  %s/%s: %s\n", p.GameType, p.Difficulty, p.Description)
		}
	}

	fmt.Fprintf(w, "\n========================================\n")
	if invalid > 0 {
		fmt.Fprintln(w, "❌ Some preset files have errors")
		return fmt.Errorf("%d of %d preset files are invalid", invalid, len(files))
	}
	fmt.Fprintln(w, "✅ All preset files are valid!")
	return nil
}
