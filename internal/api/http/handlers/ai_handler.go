package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/dto"
	"github.com/devtama101/customer-support-dashboard/internal/service"
)

// AIHandler exposes the enrichment pipeline and its audit log.
type AIHandler struct {
	enrichment *service.EnrichmentService
}

// NewAIHandler constructs handler.
func NewAIHandler(enrichment *service.EnrichmentService) *AIHandler {
	return &AIHandler{enrichment: enrichment}
}

// GetSummary GET /tickets/:id/ai/summary. Returns the stored summary,
// generating one first if needed.
func (h *AIHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.enrichment.GetOrGenerateSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SummaryResponse{TicketID: c.Params("id"), Summary: summary}})
}

// RegenerateSummary POST /tickets/:id/ai/summary.
func (h *AIHandler) RegenerateSummary(c *fiber.Ctx) error {
	summary, err := h.enrichment.Summarize(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SummaryResponse{TicketID: c.Params("id"), Summary: summary}})
}

// SuggestReply POST /tickets/:id/ai/suggest-reply.
func (h *AIHandler) SuggestReply(c *fiber.Ctx) error {
	reply, err := h.enrichment.SuggestReply(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestedReplyResponse{TicketID: c.Params("id"), Reply: reply}})
}

// SuggestPriority POST /tickets/:id/ai/suggest-priority.
func (h *AIHandler) SuggestPriority(c *fiber.Ctx) error {
	priority, err := h.enrichment.SuggestPriority(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestedPriorityResponse{TicketID: c.Params("id"), Priority: priority}})
}

// ListLogs GET /tickets/:id/ai/logs.
func (h *AIHandler) ListLogs(c *fiber.Ctx) error {
	entries, err := h.enrichment.ListLogs(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AILogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AILogResponse{
			ID:         entry.ID,
			TicketID:   entry.TicketID,
			ActionType: entry.ActionType,
			Input:      entry.Input,
			Output:     entry.Output,
			TokensUsed: entry.TokensUsed,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetUsage GET /ai/usage.
func (h *AIHandler) GetUsage(c *fiber.Ctx) error {
	usage, err := h.enrichment.GetUsage(c.UserContext(), optionalQuery(c, "team_id"))
	if err != nil {
		return err
	}
	byAction := make(map[string]int, len(usage.ByAction))
	for action, count := range usage.ByAction {
		byAction[string(action)] = count
	}
	return c.JSON(fiber.Map{"data": dto.UsageResponse{
		TotalTokens:   usage.TotalTokens,
		TotalRequests: usage.TotalRequests,
		ByAction:      byAction,
	}})
}
