package team

import (
	"fmt"
	"strings"
)

// Suggestion types, in the order the router emits them.
const (
	TypeRepositoryOwner = "repository_owner"
	TypeExpertise       = "expertise"
	TypeOnCallPrimary   = "on_call_primary"
	TypeOnCallSecondary = "on_call_secondary"
)

// Suggestion is one person the router proposes to notify.
type Suggestion struct {
	Type   string `json:"type"`
	Person string `json:"person"`
	Reason string `json:"reason"`
}

// Recommendation is the router output for one failing workflow.
type Recommendation struct {
	Repository              string       `json:"repository"`
	WorkflowName            string       `json:"workflow_name"`
	FailureType             string       `json:"failure_type"`
	NotificationSuggestions []Suggestion `json:"notification_suggestions"`
	WorkflowSpecificNotes   []string     `json:"workflow_specific_notes"`
}

// workflowHints are checked in order; only the first match contributes.
var workflowHints = []struct {
	keyword string
	note    string
}{
	{"test", "QA team should be notified for test failures"},
	{"deploy", "DevOps team should be notified for deployment failures"},
	{"security", "Security team should be notified for security check failures"},
}

// Suggest lists who to notify about a failure of workflow in repository:
// repository owners, then category experts, then primary and secondary
// on-call. An empty category means CategoryGeneral.
func Suggest(cfg *Config, repository, workflow, category string) *Recommendation {
	if category == "" {
		category = CategoryGeneral
	}

	suggestions := []Suggestion{}
	for _, person := range cfg.Repositories[repository] {
		suggestions = append(suggestions, Suggestion{
			Type:   TypeRepositoryOwner,
			Person: person,
			Reason: fmt.Sprintf("Repository owner for %s", repository),
		})
	}
	for _, person := range cfg.Expertise[category] {
		suggestions = append(suggestions, Suggestion{
			Type:   TypeExpertise,
			Person: person,
			Reason: fmt.Sprintf("Expert in %s issues", category),
		})
	}
	if cfg.OnCall.Primary != "" {
		suggestions = append(suggestions, Suggestion{
			Type:   TypeOnCallPrimary,
			Person: cfg.OnCall.Primary,
			Reason: "Primary on-call engineer",
		})
	}
	if cfg.OnCall.Secondary != "" {
		suggestions = append(suggestions, Suggestion{
			Type:   TypeOnCallSecondary,
			Person: cfg.OnCall.Secondary,
			Reason: "Secondary on-call engineer",
		})
	}

	notes := []string{}
	lower := strings.ToLower(workflow)
	for _, h := range workflowHints {
		if strings.Contains(lower, h.keyword) {
			notes = append(notes, h.note)
			break
		}
	}

	return &Recommendation{
		Repository:              repository,
		WorkflowName:            workflow,
		FailureType:             category,
		NotificationSuggestions: suggestions,
		WorkflowSpecificNotes:   notes,
	}
}
