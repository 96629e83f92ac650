package prompts

// slackRules is appended to every prompt that produces a Slack message.
const slackRules = `
Links MUST use Slack's format <https://full-url|Link Text>:
- right: <https://github.com/user/repo|Repository>
- wrong: [Repository](https://github.com/user/repo)
- wrong: https://github.com/user/repo

Slack formatting:
- *text* for bold, never **text**
- ` + "`text`" + ` for code
- > text for quotes
- plain - or * bullets
- :emoji_name: for emoji

Then send it with send_slack_notification.`

// NewFailureAlertPrompt creates the format_ci_failure_alert prompt.
func NewFailureAlertPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "format_ci_failure_alert",
		description: "Create a Slack alert for CI/CD failures with rich formatting.",
		text: `Turn this GitHub Actions failure into a Slack message, using Slack markdown only:

:rotating_light: *CI Failure Alert* :rotating_light:

A CI workflow has failed:
*Workflow*: workflow_name
*Branch*: branch_name
*Status*: Failed
*View Details*: <https://github.com/test/repo/actions/runs/123|View Logs>

Please check the logs and fix the problem.
` + slackRules,
	}
}

// NewSuccessSummaryPrompt creates the format_ci_success_summary prompt.
func NewSuccessSummaryPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "format_ci_success_summary",
		description: "Create a Slack message celebrating successful deployments.",
		text: `Turn this successful GitHub Actions run into a Slack message, using Slack markdown only:

:white_check_mark: *Deployment Successful* :white_check_mark:

Deployment finished for [Repository Name]

*Changes:*
- key feature or fix 1
- key feature or fix 2

*Links:*
<https://github.com/user/repo|View Changes>
` + slackRules,
	}
}
