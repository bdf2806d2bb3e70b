// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/podplayer/internal/api/connect"
	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/app/notification"
	"github.com/osa030/podplayer/internal/app/observer"
	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/infra/config"
	"github.com/osa030/podplayer/internal/infra/logger"
)

var (
	app        = kingpin.New("podplayer-server", "podplayer playback state server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-observers command
	listObserversCmd = app.Command("list-observers", "List available observer types and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listObserversCmd.FullCommand() {
		printObservers()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	var opts []player.Option
	if cfg.Player.ShuffleSeed != 0 {
		opts = append(opts, player.WithSeed(cfg.Player.ShuffleSeed))
	}
	playerMgr := player.NewManager(opts...)

	observers, err := observer.NewFromConfig(cfg.Observers)
	if err != nil {
		return fmt.Errorf("invalid observer config: %w", err)
	}
	detachObservers := observer.Attach(playerMgr, observers...)
	defer func() {
		detachObservers()
		observer.CloseAll(observers)
	}()

	notifMgr := notification.NewManager(cfg.NotificationTimeout())
	playerService := apiconnect.NewPlayerService(playerMgr, notifMgr)

	mux := http.NewServeMux()
	path, handler := playerv1.NewPlayerServiceHandler(
		playerService,
		connect.WithInterceptors(apiconnect.NewControlAuthInterceptor(cfg)),
	)
	mux.Handle(path, handler)

	if cfg.ControlEnabled() {
		zlog.Info().Msg("Control token enabled for state-changing procedures")
	}

	serverAddr := cfg.Server.Addr
	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    serverAddr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", serverAddr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// End subscription streams first so Shutdown does not wait on them
	playerService.Close()
	notifMgr.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printObservers prints available observer types.
func printObservers() {
	fmt.Println("Available Observers:")
	for _, reg := range observer.GetRegistered() {
		fmt.Printf("  %-10s - %s\n", reg.Name, reg.Description)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
