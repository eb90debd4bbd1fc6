package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
)

// ActivityService defines diary operations needed by MCP.
type ActivityService interface {
	Log(ctx context.Context, hint string, draft activity.Record) (*activity.Record, activity.Validation, error)
	EndSleep(ctx context.Context, childID string, end *time.Time) (*activity.Record, error)
	OpenSleep(ctx context.Context, childID string) (*activity.Record, error)
	TodayActivities(ctx context.Context, childID string) (*activity.TodaySnapshot, error)
	Summary(ctx context.Context, childID, date string) (*activity.DailySummary, error)
}

// ChildService defines caregiver and child operations needed by MCP.
type ChildService interface {
	RegisterCaregiver(ctx context.Context, chatID, name string) (*child.Caregiver, error)
	AddChild(ctx context.Context, chatID, name, birthDate, gender string) (*child.Child, error)
	ListChildren(ctx context.Context, chatID string) ([]child.Child, error)
}

// TimeResolver resolves relative time phrases.
type TimeResolver interface {
	Resolve(expr string, ref time.Time) time.Time
}

// EventTimeResolver resolves phrases anchored to a recent activity.
type EventTimeResolver interface {
	ResolveRelativeToEvent(ctx context.Context, eventHint, offsetExpr, childID string) time.Time
}

// Services contains all domain services needed by MCP.
type Services struct {
	Activities    ActivityService
	Children      ChildService
	Resolver      TimeResolver
	EventResolver EventTimeResolver
	Limits        activity.DurationLimits
	Location      *time.Location
	Now           func() time.Time
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "babylog",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("local"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
