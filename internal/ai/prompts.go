package ai

import (
	"fmt"
	"strings"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

func sentimentPrompt(text string) string {
	return fmt.Sprintf("Analyze the sentiment of this customer support message. Return ONLY a number between -1 (very negative) and 1 (very positive). No explanation.\n\nMessage: %q", text)
}

func categorizePrompt(text string) string {
	return fmt.Sprintf(`Categorize this customer support message into ONE of these categories:
- billing
- technical
- feature_request
- bug
- account
- other

Return ONLY the category name (lowercase, no spaces).

Message: %q`, text)
}

func summarizePrompt(messages []TranscriptMessage) string {
	return fmt.Sprintf("Summarize this customer support conversation in 2-3 sentences. Focus on the issue, what was discussed, and current status.\n\n%s", renderTranscript(messages))
}

func suggestReplyPrompt(subject string, messages []TranscriptMessage) string {
	return fmt.Sprintf(`You are a customer support agent. Suggest a helpful, professional reply to this customer ticket.

Subject: %s

Conversation:
%s

Provide a draft response that the agent can edit before sending. Be empathetic, clear, and helpful.`, subject, renderTranscript(messages))
}

func suggestPriorityPrompt(subject, description string, sentiment float64) string {
	return fmt.Sprintf(`Based on this ticket, suggest a priority level. Return ONLY ONE of: LOW, MEDIUM, HIGH, URGENT

Subject: %s
Description: %s
Sentiment Score: %g (-1 to 1)

Consider:
- URGENT: System down, data loss, security issue
- HIGH: Broken feature affecting work, billing errors
- MEDIUM: Questions, minor issues, feature requests
- LOW: General inquiries, feedback

Priority:`, subject, description, sentiment)
}

func renderTranscript(messages []TranscriptMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		speaker := "Agent"
		if msg.SenderType == domain.SenderTypeCustomer {
			speaker = "Customer"
		}
		lines = append(lines, speaker+": "+msg.Body)
	}
	return strings.Join(lines, "\n\n")
}
