package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/observability"
)

// toolHandlers binds the tool catalog to the domain services. Handlers never
// return Go errors for downstream failures: those become {error} fields in
// the structured result so the calling agent can react to them.
type toolHandlers struct {
	svc Services
}

// registerTools registers the tool catalog on the server.
func registerTools(server *sdkmcp.Server, svc Services) {
	h := &toolHandlers{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_activity",
		Description: "Log one baby activity (sleep, feeding, walk, diaper, temperature, medication, mood). Omitting end_time for sleep starts an open sleep. Returns the stored record plus an advisory warning for implausible durations.",
	}, h.logActivity)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "end_sleep",
		Description: "End the child's sleep in progress and compute its duration. end_time defaults to now.",
	}, h.endSleep)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_today_activities",
		Description: "Get all of the child's activities for the current civil day, grouped by type.",
	}, h.getTodayActivities)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_open_sleep",
		Description: "Check whether the child has a sleep in progress.",
	}, h.getOpenSleep)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_time",
		Description: "Resolve a Russian relative time phrase ('2 часа назад', 'вчера вечером', 'в 15:30') to an ISO timestamp. Set relative_to_event to anchor phrases like 'через час после кормления' to the child's latest matching activity.",
	}, h.resolveTime)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "validate_activity",
		Description: "Check whether a duration is plausible for an activity type. Advisory only.",
	}, h.validateActivity)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_daily_summary",
		Description: "Get aggregated totals for one civil day: sleep minutes, feeding count and volume, walk minutes, diaper counts, latest temperature.",
	}, h.getDailySummary)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register_caregiver",
		Description: "Register the chat as a caregiver. Idempotent: re-registering returns the existing caregiver.",
	}, h.registerCaregiver)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_child",
		Description: "Add a child under the chat's caregiver.",
	}, h.addChild)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_children",
		Description: "List the chat's children with their IDs.",
	}, h.listChildren)
}

func (h *toolHandlers) logActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, p LogActivityParams) (*sdkmcp.CallToolResult, LogActivityResult, error) {
	draft := activity.Record{
		ChildID:         p.ChildID,
		DurationMinutes: p.DurationMinutes,
		FeedingType:     p.FeedingType,
		AmountML:        p.AmountML,
		FoodName:        p.FoodName,
		Side:            p.Side,
		Quality:         p.Quality,
		Location:        p.Location,
		Weather:         p.Weather,
		DiaperType:      p.DiaperType,
		Consistency:     p.Consistency,
		Color:           p.Color,
		Temperature:     p.Temperature,
		MeasurementType: p.MeasurementType,
		MedicationName:  p.MedicationName,
		Dosage:          p.Dosage,
		Mood:            p.Mood,
		Intensity:       p.Intensity,
		Notes:           p.Notes,
	}

	if p.Time != "" {
		t, err := h.parseTime(p.Time)
		if err != nil {
			return h.logActivityError(fmt.Errorf("invalid time: %w", err))
		}
		draft.Time = t
	}
	if p.EndTime != "" {
		t, err := h.parseTime(p.EndTime)
		if err != nil {
			return h.logActivityError(fmt.Errorf("invalid end_time: %w", err))
		}
		draft.EndTime = &t
	}

	rec, validation, err := h.svc.Activities.Log(ctx, p.ActivityType, draft)
	if err != nil {
		return h.logActivityError(err)
	}

	observability.RecordToolCall("log_activity", "ok")
	result := LogActivityResult{Activity: rec}
	if !validation.Valid {
		result.Warning = validation.Reason
	}
	return nil, result, nil
}

func (h *toolHandlers) logActivityError(err error) (*sdkmcp.CallToolResult, LogActivityResult, error) {
	observability.RecordToolCall("log_activity", "error")
	return nil, LogActivityResult{Error: errorMessage(err)}, nil
}

func (h *toolHandlers) endSleep(ctx context.Context, _ *sdkmcp.CallToolRequest, p EndSleepParams) (*sdkmcp.CallToolResult, EndSleepResult, error) {
	var end *time.Time
	if p.EndTime != "" {
		t, err := h.parseTime(p.EndTime)
		if err != nil {
			observability.RecordToolCall("end_sleep", "error")
			return nil, EndSleepResult{Error: fmt.Sprintf("invalid end_time: %v", err)}, nil
		}
		end = &t
	}

	rec, err := h.svc.Activities.EndSleep(ctx, p.ChildID, end)
	if err != nil {
		observability.RecordToolCall("end_sleep", "error")
		return nil, EndSleepResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("end_sleep", "ok")
	return nil, EndSleepResult{Activity: rec}, nil
}

func (h *toolHandlers) getTodayActivities(ctx context.Context, _ *sdkmcp.CallToolRequest, p GetTodayActivitiesParams) (*sdkmcp.CallToolResult, GetTodayActivitiesResult, error) {
	snap, err := h.svc.Activities.TodayActivities(ctx, p.ChildID)
	if err != nil {
		observability.RecordToolCall("get_today_activities", "error")
		return nil, GetTodayActivitiesResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("get_today_activities", "ok")
	return nil, GetTodayActivitiesResult{Activities: snap}, nil
}

func (h *toolHandlers) getOpenSleep(ctx context.Context, _ *sdkmcp.CallToolRequest, p GetOpenSleepParams) (*sdkmcp.CallToolResult, GetOpenSleepResult, error) {
	rec, err := h.svc.Activities.OpenSleep(ctx, p.ChildID)
	if err != nil {
		if errors.Is(err, activity.ErrNoOpenSleep) {
			observability.RecordToolCall("get_open_sleep", "ok")
			return nil, GetOpenSleepResult{Open: false}, nil
		}
		observability.RecordToolCall("get_open_sleep", "error")
		return nil, GetOpenSleepResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("get_open_sleep", "ok")
	return nil, GetOpenSleepResult{Open: true, Activity: rec}, nil
}

func (h *toolHandlers) resolveTime(ctx context.Context, _ *sdkmcp.CallToolRequest, p ResolveTimeParams) (*sdkmcp.CallToolResult, ResolveTimeResult, error) {
	loc := h.location()

	if p.RelativeToEvent != "" {
		if p.ChildID == "" {
			observability.RecordToolCall("resolve_time", "error")
			return nil, ResolveTimeResult{Error: "MISSING_CHILD: child_id is required with relative_to_event"}, nil
		}
		resolved := h.svc.EventResolver.ResolveRelativeToEvent(ctx, p.RelativeToEvent, p.Expression, p.ChildID)
		observability.RecordToolCall("resolve_time", "ok")
		return nil, ResolveTimeResult{Time: resolved.In(loc).Format(time.RFC3339)}, nil
	}

	ref := h.now().In(loc)
	if p.Reference != "" {
		t, err := h.parseTime(p.Reference)
		if err != nil {
			observability.RecordToolCall("resolve_time", "error")
			return nil, ResolveTimeResult{Error: fmt.Sprintf("invalid reference: %v", err)}, nil
		}
		ref = t.In(loc)
	}

	resolved := h.svc.Resolver.Resolve(p.Expression, ref)
	if resolved.Equal(ref) && !isImmediatePhrase(p.Expression) {
		observability.RecordTimeResolutionFallback()
	}
	observability.RecordToolCall("resolve_time", "ok")
	return nil, ResolveTimeResult{Time: resolved.In(loc).Format(time.RFC3339)}, nil
}

func (h *toolHandlers) validateActivity(_ context.Context, _ *sdkmcp.CallToolRequest, p ValidateActivityParams) (*sdkmcp.CallToolResult, ValidateActivityResult, error) {
	kind, ok := activity.KindFromHint(p.ActivityType)
	if !ok {
		observability.RecordToolCall("validate_activity", "error")
		return nil, ValidateActivityResult{Error: errorMessage(activity.ErrUnknownActivity)}, nil
	}
	// No duration means nothing to check; the thresholds only apply to a
	// present value.
	if p.DurationMinutes == nil {
		observability.RecordToolCall("validate_activity", "ok")
		return nil, ValidateActivityResult{Valid: true}, nil
	}
	v := h.svc.Limits.Validate(kind, *p.DurationMinutes)
	observability.RecordToolCall("validate_activity", "ok")
	return nil, ValidateActivityResult{Valid: v.Valid, Reason: v.Reason}, nil
}

func (h *toolHandlers) getDailySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, p GetDailySummaryParams) (*sdkmcp.CallToolResult, GetDailySummaryResult, error) {
	summary, err := h.svc.Activities.Summary(ctx, p.ChildID, p.Date)
	if err != nil {
		observability.RecordToolCall("get_daily_summary", "error")
		return nil, GetDailySummaryResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("get_daily_summary", "ok")
	return nil, GetDailySummaryResult{Summary: summary}, nil
}

func (h *toolHandlers) registerCaregiver(ctx context.Context, _ *sdkmcp.CallToolRequest, p RegisterCaregiverParams) (*sdkmcp.CallToolResult, RegisterCaregiverResult, error) {
	caregiver, err := h.svc.Children.RegisterCaregiver(ctx, p.ChatID, p.Name)
	if err != nil {
		observability.RecordToolCall("register_caregiver", "error")
		return nil, RegisterCaregiverResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("register_caregiver", "ok")
	return nil, RegisterCaregiverResult{Caregiver: caregiver}, nil
}

func (h *toolHandlers) addChild(ctx context.Context, _ *sdkmcp.CallToolRequest, p AddChildParams) (*sdkmcp.CallToolResult, AddChildResult, error) {
	ch, err := h.svc.Children.AddChild(ctx, p.ChatID, p.Name, p.BirthDate, p.Gender)
	if err != nil {
		observability.RecordToolCall("add_child", "error")
		return nil, AddChildResult{Error: errorMessage(err)}, nil
	}
	observability.RecordToolCall("add_child", "ok")
	return nil, AddChildResult{Child: ch}, nil
}

func (h *toolHandlers) listChildren(ctx context.Context, _ *sdkmcp.CallToolRequest, p ListChildrenParams) (*sdkmcp.CallToolResult, ListChildrenResult, error) {
	children, err := h.svc.Children.ListChildren(ctx, p.ChatID)
	if err != nil {
		observability.RecordToolCall("list_children", "error")
		return nil, ListChildrenResult{Error: errorMessage(err)}, nil
	}

	now := h.now()
	summaries := make([]ChildSummary, 0, len(children))
	for i := range children {
		ch := &children[i]
		summary := ChildSummary{
			ID:        ch.ID,
			Name:      ch.Name,
			BirthDate: ch.BirthDate,
			Gender:    ch.Gender,
		}
		if age := ch.AgeMonths(now); age >= 0 {
			summary.AgeMonths = &age
		}
		summaries = append(summaries, summary)
	}
	observability.RecordToolCall("list_children", "ok")
	return nil, ListChildrenResult{Children: summaries}, nil
}

func (h *toolHandlers) location() *time.Location {
	if h.svc.Location != nil {
		return h.svc.Location
	}
	return time.UTC
}

func (h *toolHandlers) now() time.Time {
	if h.svc.Now != nil {
		return h.svc.Now()
	}
	return time.Now()
}

// parseTime accepts RFC 3339, or a zoneless timestamp interpreted in the
// configured timezone.
func (h *toolHandlers) parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, h.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as ISO 8601", value)
	}
	return t, nil
}

func isImmediatePhrase(expr string) bool {
	expr = strings.ToLower(strings.TrimSpace(expr))
	return expr == "" || strings.Contains(expr, "сейчас") || strings.Contains(expr, "только что")
}
