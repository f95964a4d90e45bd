// Command toyrobot runs the toy robot simulator.
//
// It supports four commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run FILE" – executes a command script and prints the reports and both grids
//  4. "repl" – reads commands interactively from stdin
//
// Flags control host/port, the settings file, scenario and audit directories,
// debug logging and optional ngrok tunneling for easy external access during
// development. Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/toyrobot/api"
	"github.com/wricardo/mcp-training/toyrobot/game/audit"
	"github.com/wricardo/mcp-training/toyrobot/game/config"
	"github.com/wricardo/mcp-training/toyrobot/game/service"
	"github.com/wricardo/mcp-training/toyrobot/game/session"
	"github.com/wricardo/mcp-training/toyrobot/transport/mcp"
	"github.com/wricardo/mcp-training/toyrobot/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Toy Robot Simulator"
)

// auditLog is the audit sink owned by main; it must be closed on exit
type auditLog interface {
	service.AuditSink
	Close() error
}

// services bundles everything the front ends share
type services struct {
	simulator service.SimulatorService
	sessions  *session.Manager
	audit     auditLog
}

// ngrokOptions controls the optional public tunnel
type ngrokOptions struct {
	enabled bool
	auth    string
	domain  string
}

// main loads .env and runs the command line application.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. The root action runs the HTTP server.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "toyrobot",
		Usage:   "Simulate a toy robot moving on a 5x5 table",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("TOYROBOT_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("TOYROBOT_PORT", "PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Settings YAML file",
				Sources: cli.EnvVars("TOYROBOT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "scenarios-dir",
				Value:   "scenarios",
				Usage:   "Directory containing scenario files",
				Sources: cli.EnvVars("TOYROBOT_SCENARIOS_DIR", "SCENARIOS_DIR"),
			},
			&cli.StringFlag{
				Name:    "audit-dir",
				Usage:   "Directory for compressed audit logs (disabled when empty)",
				Sources: cli.EnvVars("TOYROBOT_AUDIT_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("TOYROBOT_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  mcpAction,
			},
			{
				Name:      "run",
				Usage:     "Execute a command script (use - for stdin)",
				ArgsUsage: "FILE",
				Action:    runAction,
			},
			{
				Name:   "repl",
				Usage:  "Read commands from stdin",
				Action: replAction,
			},
		},
	}
}

// loadSettings layers the settings file and then flags/environment over the defaults
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	settings, err := config.LoadSettings(cmd.String("config"))
	if err != nil {
		return settings, err
	}

	if cmd.IsSet("host") || settings.Host == "" {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") || settings.Port == 0 {
		settings.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("scenarios-dir") || settings.ScenariosDir == "" {
		settings.ScenariosDir = cmd.String("scenarios-dir")
	}
	if cmd.IsSet("audit-dir") {
		settings.AuditDir = cmd.String("audit-dir")
	}
	if cmd.IsSet("debug") {
		settings.Debug = cmd.Bool("debug")
	}

	return settings, settings.Validate()
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// prepare loads settings, configures logging and wires the services
func prepare(cmd *cli.Command, mode string) (config.Settings, *services, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	setupLogging(settings.Debug)

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	svcs, err := initializeServices(settings)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return settings, svcs, nil
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	settings, svcs, err := prepare(cmd, "server")
	if err != nil {
		return err
	}
	defer closeAudit(svcs.audit)

	ngrokOpts := ngrokOptions{
		enabled: cmd.Bool("ngrok"),
		auth:    cmd.String("ngrok-auth"),
		domain:  cmd.String("ngrok-domain"),
	}
	return runHTTPServer(ctx, settings, svcs, ngrokOpts)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	settings, svcs, err := prepare(cmd, "mcp")
	if err != nil {
		return err
	}
	defer closeAudit(svcs.audit)

	return runStdioMCPWithInternalServer(settings, svcs)
}

func closeAudit(a auditLog) {
	if err := a.Close(); err != nil {
		log.Printf("Warning: failed to close audit log: %v", err)
	}
}

// newMux combines the API server and the /mcp endpoint
func newMux(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	// Always add MCP endpoint for HTTP server
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(parent context.Context, settings config.Settings, svcs *services, ngrokOpts ngrokOptions) error {
	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	go sessionCleanupRoutine(ctx, svcs.sessions, settings.CleanupInterval, settings.SessionTTL)
	if flusher, ok := svcs.audit.(*audit.Writer); ok {
		go auditFlushRoutine(ctx, flusher, 5*time.Second)
	}

	// Create API server
	apiServer := api.NewServer(svcs.simulator, hub)

	// Setup HTTP server address
	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)

	// Create MCP client for /mcp endpoint
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newMux(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// Start ngrok tunnel if enabled
	if ngrokOpts.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, ngrokOpts, mainRouter)
		}()
	}

	// Wait for shutdown signal or a listener failure
	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case runErr = <-serveErr:
		log.Printf("Shutting down: %v", runErr)
	case <-parent.Done():
		log.Println("Context cancelled. Shutting down...")
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, opts ngrokOptions, handler http.Handler) {
	if opts.auth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	// Configure ngrok endpoint
	var tunnel ngrokConfig.Tunnel
	if opts.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.domain))
		log.Printf("Using custom ngrok domain: %s", opts.domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(opts.auth),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	// Closing the tunnel unblocks http.Serve
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the session and scenario managers, the audit log
// and the simulator service.
func initializeServices(settings config.Settings) (*services, error) {
	scenarioManager, err := config.NewManager(settings.ScenariosDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	var auditSink auditLog = audit.Nop{}
	if settings.AuditDir != "" {
		auditSink = audit.NewWriter(settings.AuditDir, "audit")
		log.Printf("Audit log enabled in %s", settings.AuditDir)
	}

	sessionManager := session.NewManager()

	return &services{
		simulator: service.NewSimulatorService(sessionManager, scenarioManager, auditSink),
		sessions:  sessionManager,
		audit:     auditSink,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(ttl)
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// auditFlushRoutine pushes buffered audit records to disk
func auditFlushRoutine(ctx context.Context, w *audit.Writer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				log.Printf("Warning: audit flush failed: %v", err)
			}
		}
	}
}

// apiAvailable reports whether a simulator API answers its health check
func apiAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured host and port; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(settings config.Settings, svcs *services) error {
	externalURL := fmt.Sprintf("http://%s:%d", settings.Host, settings.Port)
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if apiAvailable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		// No external server found, start internal one
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{
			Handler: api.NewServer(svcs.simulator, hub),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := mcpClient.ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
