// Package resources implements the pr-agent MCP resources.
//
// Resources are read-only JSON views the host can pull into context
// without a tool call. They use pr-agent:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/state"
	"github.com/HendryAvila/pr-agent/internal/team"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	SeenStateURI  = "pr-agent://events/seen-state"
	TeamConfigURI = "pr-agent://team/config"
)

// SeenStateReader returns the current seen-state. *events.Pipeline
// satisfies it.
type SeenStateReader interface {
	SeenState(ctx context.Context) (*state.State, error)
}

// Handler manages pr-agent resource endpoints.
type Handler struct {
	seen           SeenStateReader
	teamConfigPath string
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(seen SeenStateReader, teamConfigPath string) *Handler {
	return &Handler{seen: seen, teamConfigPath: teamConfigPath}
}

// SeenStateResource returns the MCP resource definition for the seen-state.
func (h *Handler) SeenStateResource() mcp.Resource {
	return mcp.NewResource(
		SeenStateURI,
		"Seen Event State",
		mcp.WithResourceDescription("Event IDs already acknowledged and when events were last processed"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSeenState returns the seen-state document as JSON.
func (h *Handler) HandleSeenState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.seen.SeenState(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, st)
}

// TeamConfigResource returns the MCP resource definition for the team config.
func (h *Handler) TeamConfigResource() mcp.Resource {
	return mcp.NewResource(
		TeamConfigURI,
		"Team Configuration",
		mcp.WithResourceDescription("Effective team configuration used to route failure notifications, defaults included"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTeamConfig returns the merged team configuration as JSON.
func (h *Handler) HandleTeamConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cfg, _, err := team.Load(h.teamConfigPath)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, cfg)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
