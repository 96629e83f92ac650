package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/HendryAvila/pr-agent/internal/notify"
	"github.com/mark3labs/mcp-go/mcp"
)

// Notifier delivers a chat message. *notify.Slack satisfies it.
type Notifier interface {
	Send(ctx context.Context, text string, rich bool) error
}

// SlackNotificationTool handles the send_slack_notification MCP tool.
type SlackNotificationTool struct {
	notifier Notifier
	log      *slog.Logger
}

// NewSlackNotificationTool creates a SlackNotificationTool.
func NewSlackNotificationTool(n Notifier) *SlackNotificationTool {
	return &SlackNotificationTool{
		notifier: n,
		log:      slog.Default().With("component", "slack"),
	}
}

// Definition returns the MCP tool definition for registration.
func (t *SlackNotificationTool) Definition() mcp.Tool {
	return mcp.NewTool("send_slack_notification",
		mcp.WithDescription(
			"Send a formatted notification to the team Slack channel. Supports Slack markdown. "+
				"For CI failures use the format_ci_failure_alert prompt first; "+
				"for deployments use format_ci_success_summary first.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The message to send, in Slack markdown."),
		),
	)
}

// Handle processes the send_slack_notification tool call.
func (t *SlackNotificationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}

	err := t.notifier.Send(ctx, message, true)
	if err == nil {
		return mcp.NewToolResultText("✅ Message sent successfully to Slack"), nil
	}
	t.log.Warn("slack notification failed", "error", err)

	var statusErr *notify.StatusError
	var opErr *net.OpError
	switch {
	case errors.Is(err, notify.ErrNoWebhookURL):
		return mcp.NewToolResultError("Error: SLACK_WEBHOOK_URL environment variable not set"), nil
	case errors.As(err, &statusErr):
		return mcp.NewToolResultError(fmt.Sprintf(
			"❌ Failed to send message. Status: %d, Response: %s", statusErr.StatusCode, statusErr.Body,
		)), nil
	case notify.IsTimeout(err):
		return mcp.NewToolResultError("❌ Request timed out. Check your internet connection and try again."), nil
	case errors.As(err, &opErr):
		return mcp.NewToolResultError("❌ Connection error. Check your internet connection and webhook URL."), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("❌ Error sending message: %v", err)), nil
	}
}
