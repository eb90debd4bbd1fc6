package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `babylog stores a caregiver's baby-activity diary. Free-form chat messages
are interpreted by you; the deterministic parts (time resolution, classification,
validation, storage) live behind these tools.

Core concepts:
- Caregiver: a chat identity (register_caregiver) owning one or more children.
- Child: the subject of all diary entries; every logging tool needs child_id.
- Activity: one diary entry of type sleep, feeding, walk, diaper, temperature,
  medication or mood. Sleep and walk are intervals; sleep may be logged open
  (no end_time) and closed later with end_sleep.
- At most one open sleep per child.

Rules of engagement (default workflow):
1) On a new chat: register_caregiver, then list_children (add_child if empty).
2) When the message carries a relative time ("2 часа назад", "вчера вечером",
   "через час после кормления"), call resolve_time first and pass the returned
   timestamp to log_activity. Never guess timestamps yourself.
3) Log with log_activity. Pass the fields you extracted; missing fields get
   sensible defaults. A "warning" in the result means the duration looks
   implausible: store happened anyway, ask the caregiver to confirm.
4) "Проснулся" means end_sleep, not a new activity.
5) For "что сегодня было" use get_today_activities; for totals use
   get_daily_summary.
6) Tool failures come back as {"error": "CODE: message"}. React to the code
   (e.g. OPEN_SLEEP_EXISTS means call end_sleep first); do not retry blindly.

Docs:
- babylog://docs/time-expressions (what resolve_time understands)
- babylog://docs/logging (field conventions per activity type)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "babylog://docs/time-expressions",
		Name:        "docs_time_expressions",
		Title:       "Time expressions",
		Description: "The Russian relative time phrases resolve_time understands, and how unresolvable input behaves.",
		Content: `# Time expressions

` + "`resolve_time`" + ` is deterministic and fail-open: a phrase it cannot interpret
resolves to the reference instant unchanged, never to an error.

## Supported phrases

- Immediate: "сейчас", "только что".
- Backward offsets: "2 часа назад", "30 минут назад", "полчаса назад",
  "полтора часа назад", "пару часов назад".
- Forward offsets: "через 20 минут", "через час".
- Day parts: "утром" (08:00), "днем" (13:00), "вечером" (19:00), "ночью" (02:00).
  Without a day word these only resolve once the reference time has clearly
  passed the part; "утром" said at 07:59 still means the ongoing morning.
- Day words: "вчера", "позавчера", "сегодня", combinable with day parts and
  clock times ("вчера в 21:45"). "Вчера ночью" means late evening (23:00).
- Clock times: "в 15:30", "в 9 часов", bare "15:30".

## Event-relative phrases

"Через час после кормления" or "за 20 минут до сна": set
` + "`relative_to_event`" + ` to the event word and pass ` + "`child_id`" + `.
The anchor is the child's latest matching activity today; if there is none,
the current instant is used.

## Number words

Durations understand Russian number words ("тридцать минут", "пару часов",
"немного") and digits ("45 минут"). An unrecognized quantity counts as 1.
`,
	},
	{
		URI:         "babylog://docs/logging",
		Name:        "docs_logging",
		Title:       "Logging conventions",
		Description: "Field conventions per activity type and how defaults are applied.",
		Content: `# Logging conventions

All timestamps are ISO 8601. ` + "`time`" + ` defaults to now; for sleep and walk it
is the start.

## Per type

- sleep: omit ` + "`end_time`" + ` to start an open sleep; close it with ` + "`end_sleep`" + `.
  Optional: quality, location.
- feeding: feeding_type (breast/bottle/solid, defaults to "unknown"),
  amount_ml, food_name, side.
- walk: end_time or duration_minutes; optional weather, location.
- diaper: diaper_type pee/poop/both. If omitted it is inferred from the
  activity_type wording ("покакал" is poop, "пописал" is pee, otherwise both).
- temperature: temperature (Celsius) is required; measurement_type optional.
- medication: medication_name is required; dosage optional.
- mood: mood word plus optional intensity and notes.

## Duration handling

When both ` + "`time`" + ` and ` + "`end_time`" + ` are present the server recomputes
duration_minutes itself and ignores a passed value. Implausible durations
(sleep over 12h or under 10min, feeding over 1h, walk over 5h) are stored
anyway and flagged in the ` + "`warning`" + ` field.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
