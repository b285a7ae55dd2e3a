package domain

// Metric names from Claude Code's native OTEL integration.
const (
	MetricCostUsage        = "claude_code.cost.usage"
	MetricTokenUsage       = "claude_code.token.usage"
	MetricSessionCount     = "claude_code.session.count"
	MetricActiveTime       = "claude_code.active_time.total"
	MetricLinesOfCode      = "claude_code.lines_of_code.count"
	MetricCommitCount      = "claude_code.commit.count"
	MetricPullRequestCount = "claude_code.pull_request.count"
)

// Log event names emitted by Claude Code.
const (
	EventUserPrompt = "user_prompt"
	EventAPIRequest = "api_request"
)

// Token type attribute on claude_code.token.usage data points. Claude Code
// labels the attribute "type"; older exports used "token_type".
const (
	AttrTokenType    = "type"
	AttrTokenTypeOld = "token_type"
)

// Token type attribute values.
const (
	TokenTypeInput         = "input"
	TokenTypeOutput        = "output"
	TokenTypeCacheRead     = "cacheRead"
	TokenTypeCacheCreation = "cacheCreation"
)
