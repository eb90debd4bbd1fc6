package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
	"github.com/pkazmin/babylog/internal/sqlite"
	"github.com/pkazmin/babylog/internal/timex"
)

// newTestSession wires the full stack (in-memory SQLite, domain services,
// MCP server) and connects a client over in-memory transports.
func newTestSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	// Shared-cache in-memory DB so every pooled connection sees one schema
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits := activity.DefaultDurationLimits()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), limits, moscow, logger)
	childSvc := child.NewService(sqlite.NewChildRepository(db), logger)

	server := NewServer(Config{
		Services: Services{
			Activities:    activitySvc,
			Children:      childSvc,
			Resolver:      timex.NewResolver(moscow),
			EventResolver: timex.NewEventResolver(activitySvc, moscow, nil),
			Limits:        limits,
			Location:      moscow,
		},
		TransportMode: "stdio",
		Logger:        logger,
	})

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "tools/call %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			require.NoError(t, json.Unmarshal([]byte(text.Text), out))
			return
		}
	}
	t.Fatalf("tool %s returned no text content", name)
}

func TestServerDiaryFlow(t *testing.T) {
	session := newTestSession(t)

	var registered RegisterCaregiverResult
	callTool(t, session, "register_caregiver", map[string]any{
		"chat_id": "chat-e2e",
		"name":    "Анна",
	}, &registered)
	require.Empty(t, registered.Error)
	require.NotEmpty(t, registered.Caregiver.ID)

	// Re-registering the same chat returns the same caregiver
	var again RegisterCaregiverResult
	callTool(t, session, "register_caregiver", map[string]any{"chat_id": "chat-e2e"}, &again)
	require.Equal(t, registered.Caregiver.ID, again.Caregiver.ID)

	var added AddChildResult
	callTool(t, session, "add_child", map[string]any{
		"chat_id":    "chat-e2e",
		"name":       "Маша",
		"birth_date": "2023-06-01",
	}, &added)
	require.Empty(t, added.Error)
	childID := added.Child.ID
	require.NotEmpty(t, childID)

	var listed ListChildrenResult
	callTool(t, session, "list_children", map[string]any{"chat_id": "chat-e2e"}, &listed)
	require.Len(t, listed.Children, 1)
	require.Equal(t, childID, listed.Children[0].ID)
	require.NotNil(t, listed.Children[0].AgeMonths)

	var resolved ResolveTimeResult
	callTool(t, session, "resolve_time", map[string]any{
		"expression": "2 часа назад",
		"reference":  "2024-01-15T14:00:00+03:00",
	}, &resolved)
	require.Empty(t, resolved.Error)
	require.Equal(t, "2024-01-15T12:00:00+03:00", resolved.Time)

	// Start an open sleep
	var slept LogActivityResult
	callTool(t, session, "log_activity", map[string]any{
		"activity_type": "sleep",
		"child_id":      childID,
	}, &slept)
	require.Empty(t, slept.Error)
	require.Nil(t, slept.Activity.EndTime)

	var open GetOpenSleepResult
	callTool(t, session, "get_open_sleep", map[string]any{"child_id": childID}, &open)
	require.True(t, open.Open)
	require.Equal(t, slept.Activity.ID, open.Activity.ID)

	// A second sleep while one is open is rejected with a structured error
	var conflict LogActivityResult
	callTool(t, session, "log_activity", map[string]any{
		"activity_type": "sleep",
		"child_id":      childID,
	}, &conflict)
	require.Contains(t, conflict.Error, "OPEN_SLEEP_EXISTS")

	var woke EndSleepResult
	callTool(t, session, "end_sleep", map[string]any{"child_id": childID}, &woke)
	require.Empty(t, woke.Error)
	require.NotNil(t, woke.Activity.EndTime)
	require.NotNil(t, woke.Activity.DurationMinutes)

	callTool(t, session, "get_open_sleep", map[string]any{"child_id": childID}, &open)
	require.False(t, open.Open)

	// Ending again fails: nothing is open anymore
	var noSleep EndSleepResult
	callTool(t, session, "end_sleep", map[string]any{"child_id": childID}, &noSleep)
	require.Contains(t, noSleep.Error, "NO_OPEN_SLEEP")

	var fed LogActivityResult
	callTool(t, session, "log_activity", map[string]any{
		"activity_type": "кормление",
		"child_id":      childID,
		"feeding_type":  "bottle",
		"amount_ml":     120,
	}, &fed)
	require.Empty(t, fed.Error)
	require.Equal(t, "feeding", string(fed.Activity.Kind))

	var today GetTodayActivitiesResult
	callTool(t, session, "get_today_activities", map[string]any{"child_id": childID}, &today)
	require.Empty(t, today.Error)
	require.Len(t, today.Activities.Sleep, 1)
	require.Len(t, today.Activities.Feeding, 1)
	require.NotNil(t, today.Activities.Walk, "empty kinds serialize as [] per the output schema")

	var summary GetDailySummaryResult
	callTool(t, session, "get_daily_summary", map[string]any{"child_id": childID}, &summary)
	require.Empty(t, summary.Error)
	require.Equal(t, 1, summary.Summary.FeedingCount)
	require.Equal(t, 120, summary.Summary.FeedingML)
	require.Equal(t, 1, summary.Summary.SleepCount)
}

func TestServerUnknownActivity(t *testing.T) {
	session := newTestSession(t)

	var result LogActivityResult
	callTool(t, session, "log_activity", map[string]any{
		"activity_type": "чтение книжки",
		"child_id":      "child-1",
	}, &result)
	require.Contains(t, result.Error, "UNKNOWN_ACTIVITY")
}

func TestServerDocResources(t *testing.T) {
	session := newTestSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := session.ListResources(ctx, &sdkmcp.ListResourcesParams{})
	require.NoError(t, err)
	require.Len(t, list.Resources, 2)

	read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "babylog://docs/time-expressions"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Equal(t, "babylog://docs/time-expressions", read.Contents[0].URI)
	require.Contains(t, read.Contents[0].Text, "назад")
}
