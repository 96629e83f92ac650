package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/HendryAvila/pr-agent/internal/gitdiff"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeFunc computes a change analysis. gitdiff.Analyze satisfies it.
type AnalyzeFunc func(ctx context.Context, opts gitdiff.Options) (*gitdiff.Analysis, error)

// AnalyzeChangesTool handles the analyze_file_changes MCP tool.
type AnalyzeChangesTool struct {
	analyze AnalyzeFunc
}

// NewAnalyzeChangesTool creates an AnalyzeChangesTool.
func NewAnalyzeChangesTool(analyze AnalyzeFunc) *AnalyzeChangesTool {
	return &AnalyzeChangesTool{analyze: analyze}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeChangesTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_file_changes",
		mcp.WithDescription(
			"Get the full diff and list of changed files in the current git repository. "+
				"Compares HEAD with its merge base against base_branch and returns changed files, "+
				"diff statistics, commits and the (possibly truncated) diff.",
		),
		mcp.WithString("base_branch",
			mcp.Description("Base branch to compare against. Default: main."),
		),
		mcp.WithBoolean("include_diff",
			mcp.Description("Include the full diff content. Default: true."),
		),
		mcp.WithNumber("max_diff_lines",
			mcp.Description("Maximum number of diff lines to include. Default: 500."),
		),
		mcp.WithString("working_directory",
			mcp.Description("Directory inside the repository to analyze. Default: the server's working directory."),
		),
	)
}

// Handle processes the analyze_file_changes tool call.
func (t *AnalyzeChangesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("working_directory", "")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errorResult(fmt.Sprintf("getting working directory: %v", err)), nil
		}
		dir = wd
	}

	maxLines := intArg(req, "max_diff_lines", gitdiff.DefaultMaxDiffLines)
	if maxLines <= 0 {
		return errorResult("max_diff_lines must be a positive number"), nil
	}

	analysis, err := t.analyze(ctx, gitdiff.Options{
		Dir:          dir,
		BaseBranch:   req.GetString("base_branch", gitdiff.DefaultBaseBranch),
		IncludeDiff:  boolArg(req, "include_diff", true),
		MaxDiffLines: maxLines,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Git error: %v", err)), nil
	}
	return jsonResult(analysis)
}
