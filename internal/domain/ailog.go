package domain

import "time"

// AIActionType captures which enrichment produced a log entry.
type AIActionType string

const (
	AIActionSummarize        AIActionType = "SUMMARIZE"
	AIActionSuggestReply     AIActionType = "SUGGEST_REPLY"
	AIActionSuggestPriority  AIActionType = "SUGGEST_PRIORITY"
	AIActionAnalyzeSentiment AIActionType = "ANALYZE_SENTIMENT"
	AIActionCategorize       AIActionType = "CATEGORIZE"
)

// AILogEntry is an append-only audit record of one inference invocation,
// kept for token/cost accounting. Entries are never mutated or deleted by
// normal operation.
type AILogEntry struct {
	ID         string
	TicketID   string
	ActionType AIActionType
	Input      map[string]any
	Output     map[string]any
	TokensUsed *int
	CreatedAt  time.Time
}

// AIUsage aggregates logged inference calls, optionally scoped to a team.
type AIUsage struct {
	TotalTokens   int
	TotalRequests int
	ByAction      map[AIActionType]int
}
