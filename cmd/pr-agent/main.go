// pr-agent: pull request and CI/CD assistant MCP server.
//
// It lets an AI coding tool inspect the local git repository, pick PR
// templates, query GitHub Actions events received by webhook and notify
// the team on Slack.
//
// Usage:
//
//	pr-agent serve     # MCP server on stdio (plus the webhook receiver if webhook.addr is set)
//	pr-agent webhook   # GitHub webhook receiver only
//	pr-agent version
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
