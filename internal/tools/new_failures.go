package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/mark3labs/mcp-go/mcp"
	naturaldate "github.com/tj/go-naturaldate"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// NewFailuresTool handles the get_new_failures MCP tool.
type NewFailuresTool struct {
	events EventQuerier
}

// NewNewFailuresTool creates a NewFailuresTool.
func NewNewFailuresTool(q EventQuerier) *NewFailuresTool {
	return &NewFailuresTool{events: q}
}

// Definition returns the MCP tool definition for registration.
func (t *NewFailuresTool) Definition() mcp.Tool {
	return mcp.NewTool("get_new_failures",
		mcp.WithDescription(
			"Get workflow failures received within a recent time window, "+
				"grouped by repository and workflow, most failures first.",
		),
		mcp.WithNumber("since_hours",
			mcp.Description("Size of the window in hours. Default: 24."),
		),
		mcp.WithString("since",
			mcp.Description("Start of the window in plain words, e.g. 'yesterday' or '3 days ago'. Overrides since_hours."),
		),
	)
}

// Handle processes the get_new_failures tool call.
func (t *NewFailuresTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hours := intArg(req, "since_hours", events.DefaultSinceHours)
	if since := req.GetString("since", ""); since != "" {
		h, err := hoursSince(since, timeNow())
		if err != nil {
			return errorResult(err.Error()), nil
		}
		hours = h
	}
	if hours <= 0 {
		return errorResult("since_hours must be a positive number"), nil
	}

	report, err := t.events.NewFailures(ctx, hours)
	if errors.Is(err, events.ErrNoEvents) {
		return messageResult(events.NoEventsMessage)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("reading failures: %v", err)), nil
	}
	return jsonResult(report)
}

// hoursSince parses a natural-language point in the past and returns the
// whole hours between it and now, rounded up.
func hoursSince(expr string, now time.Time) (int, error) {
	start, err := naturaldate.Parse(expr, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return 0, fmt.Errorf("could not parse since %q: %v", expr, err)
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0, fmt.Errorf("since %q does not describe a point in the past", expr)
	}
	return int(math.Ceil(elapsed.Hours())), nil
}
