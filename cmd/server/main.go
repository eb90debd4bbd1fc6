package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkazmin/babylog/internal/config"
	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
	"github.com/pkazmin/babylog/internal/mcp"
	"github.com/pkazmin/babylog/internal/sqlite"
	"github.com/pkazmin/babylog/internal/timex"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	loc, err := time.LoadLocation(cfg.NLP.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.NLP.Timezone, "error", err)
		os.Exit(1)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	childRepo := sqlite.NewChildRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	limits := activity.DurationLimits{
		SleepMax:   cfg.NLP.Limits.SleepMax,
		SleepMin:   cfg.NLP.Limits.SleepMin,
		FeedingMax: cfg.NLP.Limits.FeedingMax,
		WalkMax:    cfg.NLP.Limits.WalkMax,
	}
	activitySvc := activity.NewService(activityRepo, limits, loc, logger)
	childSvc := child.NewService(childRepo, logger)
	resolver := timex.NewResolver(loc, dayPartsFromConfig(cfg.NLP.DayParts)...)
	eventResolver := timex.NewEventResolver(activitySvc, loc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Activities:    activitySvc,
			Children:      childSvc,
			Resolver:      resolver,
			EventResolver: eventResolver,
			Limits:        limits,
			Location:      loc,
		},
		Resolver:      &apiKeyResolver{keys: apiKeys},
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func dayPartsFromConfig(parts []config.DayPartConfig) []timex.DayPart {
	converted := make([]timex.DayPart, 0, len(parts))
	for _, p := range parts {
		converted = append(converted, timex.DayPart{
			Name:     p.Name,
			Keywords: p.Keywords,
			Hour:     p.Hour,
			LateHour: p.LateHour,
			Rollover: p.Rollover,
		})
	}
	return converted
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type apiKeyResolver struct {
	keys *sqlite.APIKeyRepository
}

func (r *apiKeyResolver) ResolveKey(ctx context.Context, token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	ownerID, err := r.keys.Resolve(ctx, hex.EncodeToString(sum[:]))
	if err != nil {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return ownerID, nil
}
