package prompts

// NewAnalyzeCIResultsPrompt creates the analyze_ci_results prompt.
func NewAnalyzeCIResultsPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "analyze_ci_results",
		description: "Analyze recent CI/CD results and provide insights.",
		text: `Review the latest GitHub Actions activity for me.

1. Call get_recent_actions_events to fetch the most recent events.
2. Call get_workflow_status to see the current state of every workflow.
3. Point out failures or anything else that needs attention.
4. Recommend concrete next steps.

Answer in this shape:
## CI/CD Status Summary
- **Overall Health**: Good / Warning / Critical
- **Failed Workflows**: each failure with its run link
- **Successful Workflows**: recent passing runs
- **Recommendations**: specific actions to take
- **Trends**: patterns across runs, if any`,
	}
}

// NewDeploymentSummaryPrompt creates the create_deployment_summary prompt.
func NewDeploymentSummaryPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "create_deployment_summary",
		description: "Generate a deployment summary for team communication.",
		text: `Write a short deployment update for the team.

1. Call get_workflow_status.
2. Focus on workflows that deploy (names mentioning deploy, release or publish).
3. Note the outcome, the timing and any problems.

Keep it short enough for a chat channel:

🚀 **Deployment Update**
- **Status**: ✅ Success / ❌ Failed / ⏳ In Progress
- **Environment**: Production / Staging / Dev
- **Version/Commit**: when the run data shows it
- **Duration**: when available
- **Key Changes**: one line if known
- **Issues**: problems hit during the deploy
- **Next Steps**: required follow-up if it failed`,
	}
}

// NewPRStatusReportPrompt creates the generate_pr_status_report prompt.
func NewPRStatusReportPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "generate_pr_status_report",
		description: "Generate a comprehensive PR status report including CI/CD results.",
		text: `Build a status report for the current pull request.

1. Call analyze_file_changes to see what changed.
2. Call get_workflow_status to check CI.
3. Call suggest_template with your reading of the change to pick a PR template.
4. Combine everything into one report.

## 📋 PR Status Report

### 📝 Code Changes
- **Files Modified**: counts by file type
- **Change Type**: feature, bug fix, refactor...
- **Impact Assessment**: High / Medium / Low, with the reason
- **Key Changes**: the main modifications as bullets

### 🔄 CI/CD Status
- **All Checks**: ✅ Passing / ❌ Failing / ⏳ Running
- **Test Results**: pass rate and failing tests
- **Build Status**: result and details
- **Code Quality**: lint and coverage when reported

### 📌 Recommendations
- **PR Template**: the suggested template and why
- **Next Steps**: what must happen before merge
- **Reviewers**: who should review, based on the files touched

### ⚠️ Risks & Considerations
- deployment risks
- breaking changes
- affected dependencies`,
	}
}

// NewTroubleshootPrompt creates the troubleshoot_workflow_failure prompt.
func NewTroubleshootPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "troubleshoot_workflow_failure",
		description: "Help troubleshoot a failing GitHub Actions workflow.",
		text: `Help me work out why GitHub Actions workflows are failing.

1. Call get_recent_actions_events to find recent failures.
2. Call get_workflow_status to see which workflows are red.
3. Look at when and how often each one fails.
4. Lay out a systematic troubleshooting plan.

## 🔧 Workflow Troubleshooting Guide

### ❌ Failed Workflow Details
- **Workflow Name**
- **Failure Type**: test, build, deploy, lint
- **First Failed**: when the failures started
- **Failure Rate**: intermittent or consistent

### 🔍 Diagnostic Information
- **Error Patterns**: recurring messages or symptoms
- **Recent Changes**: what changed right before the first failure
- **Dependencies**: external services or resources involved

### 💡 Possible Causes (most likely first)
1. **Most likely**: description and reasoning
2. **Likely**: description and reasoning
3. **Possible**: description and reasoning

### ✅ Suggested Fixes
**Immediate actions:**
- [ ] first thing to try
- [ ] second thing to try

**Investigation:**
- [ ] how to gather more information
- [ ] logs or data to check

**Long term:**
- [ ] preventive measure
- [ ] process improvement

### 📚 Resources
- relevant documentation
- similar issues and their fixes`,
	}
}

// NewIncidentDashboardPrompt creates the incident_response_dashboard prompt.
func NewIncidentDashboardPrompt() *StaticPrompt {
	return &StaticPrompt{
		name:        "incident_response_dashboard",
		description: "Generate an incident response dashboard for new failures and required notifications.",
		text: `Put together an incident response dashboard.

1. Call get_unseen_events to find what arrived since the last check.
2. Call get_new_failures to find recent failures that need attention.
3. For each failure group call suggest_team_notification to find who to tell.
4. Call get_workflow_status with conclusion="failure" for the current failure picture.
5. Once everything is handled, call mark_events_as_seen with the processed event IDs.

## 🚨 Incident Response Dashboard

### 📊 New Events Summary
- **Unseen Events**: count and a one-line summary
- **New Failures**: count in the last 24 hours
- **Critical Repositories**: repositories with more than one failure

### 🔥 Active Failures Requiring Action
For each failure group:
- **Repository**
- **Workflow**
- **Failure Count**
- **Duration**: time since the first failure
- **Recommended Notifications**: who and why
- **Action Required**: concrete steps

### 👥 Team Notification Plan
- **Immediate Notifications**
- **Repository Owners**
- **Expertise-Based**
- **On-Call Escalation**: if needed

### 📈 Failure Trends
- **Most Failing Workflows**: top 3 by failure count
- **Most Affected Repositories**: top 3
- **Escalation Needed**: repeated failures that need management attention

### ✅ Next Steps
1. [ ] Notify the people identified above
2. [ ] Open incidents for critical failures
3. [ ] Mark processed events as seen
4. [ ] Schedule a follow-up if needed

Keep it short and focused on what needs action now.`,
	}
}
