package domain

import "time"

// UsageSummary accumulates Claude Code usage over one time window.
// A fresh summary starts at zero and fields only ever grow during a fold.
type UsageSummary struct {
	TotalCostUSD        float64
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
	SessionCount        int64
	ActiveTimeSeconds   int64
	LinesOfCode         int64
	CommitCount         int64
	PullRequestCount    int64
	PromptCount         int64
	APIRequestCount     int64
	LastUpdated         *time.Time
}

// TotalTokens is the combined input and output token count.
func (s *UsageSummary) TotalTokens() int64 {
	return s.InputTokens + s.OutputTokens
}

// IsZero reports whether the summary carries no usage at all.
func (s *UsageSummary) IsZero() bool {
	return s.TotalCostUSD == 0 &&
		s.InputTokens == 0 &&
		s.OutputTokens == 0 &&
		s.CacheReadTokens == 0 &&
		s.CacheCreationTokens == 0 &&
		s.SessionCount == 0 &&
		s.ActiveTimeSeconds == 0 &&
		s.LinesOfCode == 0 &&
		s.CommitCount == 0 &&
		s.PullRequestCount == 0 &&
		s.PromptCount == 0 &&
		s.APIRequestCount == 0
}

// HourlyUsage is a UsageSummary covering a single hour. HourStart is the
// record timestamp truncated to the top of its hour, in UTC.
type HourlyUsage struct {
	HourStart time.Time
	UsageSummary
}

// HistoryEntry is one persisted refresh pass result.
type HistoryEntry struct {
	RecordedAt time.Time
	Window     string
	UsageSummary
}

// Window labels used when recording history.
const (
	WindowSession = "session"
	WindowWeekly  = "weekly"
)
