package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/dto"
	"github.com/devtama101/customer-support-dashboard/internal/auth"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/service"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// TicketsHandler manages dashboard ticket endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	messages *service.MessageService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, messages *service.MessageService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, messages: messages}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		CustomerID:  req.CustomerID,
		TeamID:      req.TeamID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListTickets(c.UserContext(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, msgs, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		Messages:       messageResponses(msgs),
	}
	return c.JSON(fiber.Map{"data": detail})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), callerAgent(c), c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdatePriority PATCH /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdatePriority(c.UserContext(), callerAgent(c), c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Assign PATCH /tickets/:id/assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Assign(c.UserContext(), callerAgent(c), c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.tickets.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sender := domain.SenderRef{Type: req.SenderType, ID: req.SenderID}
	msg, err := h.messages.AddMessage(c.UserContext(), c.Params("id"), sender, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// DeleteMessage DELETE /tickets/:id/messages/:messageId.
func (h *TicketsHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.messages.DeleteMessage(c.UserContext(), c.Params("messageId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMessages GET /tickets/:id/messages.
func (h *TicketsHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.messages.ListMessages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageResponses(msgs)})
}

// GetStats GET /stats/dashboard.
func (h *TicketsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.tickets.GetDashboardStats(c.UserContext(), optionalQuery(c, "team_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardStatsResponse{
		OpenTickets:        stats.OpenTickets,
		InProgressTickets:  stats.InProgressTickets,
		WaitingTickets:     stats.WaitingTickets,
		ResolvedTickets:    stats.ResolvedTickets,
		TotalTickets:       stats.TotalTickets,
		ResolutionRate:     stats.ResolutionRate,
		AvgResponseMinutes: stats.AvgResponseMinutes,
	}})
}

// GetSentimentBreakdown GET /stats/sentiment.
func (h *TicketsHandler) GetSentimentBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.tickets.GetSentimentBreakdown(c.UserContext(), optionalQuery(c, "team_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SentimentBreakdownResponse{
		Positive: breakdown.Positive,
		Neutral:  breakdown.Neutral,
		Negative: breakdown.Negative,
	}})
}

// GetVolumeSeries GET /stats/volume.
func (h *TicketsHandler) GetVolumeSeries(c *fiber.Ctx) error {
	days := parseInt(c.Query("days"), 7)
	points, err := h.tickets.GetVolumeSeries(c.UserContext(), optionalQuery(c, "team_id"), days)
	if err != nil {
		return err
	}
	items := make([]dto.VolumePointResponse, 0, len(points))
	for _, p := range points {
		items = append(items, dto.VolumePointResponse{Date: p.Date, Count: p.Count})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	filter.AssigneeID = optionalQuery(c, "assignee_id")
	filter.CustomerID = optionalQuery(c, "customer_id")
	filter.TeamID = optionalQuery(c, "team_id")
	filter.SearchTerm = optionalQuery(c, "search")

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if val := c.Query(key); val != "" {
		return &val
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func callerAgent(c *fiber.Ctx) *domain.Agent {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Agent
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		Reference:       ticket.Reference(),
		TeamID:          ticket.TeamID,
		CustomerID:      ticket.CustomerID,
		AssignedAgentID: ticket.AssignedAgentID,
		Subject:         ticket.Subject,
		Description:     ticket.Description,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		Category:        ticket.Category,
		SentimentScore:  ticket.SentimentScore,
		AISummary:       ticket.AISummary,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolvedAt:      ticket.ResolvedAt,
	}
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         msg.ID,
		TicketID:   msg.TicketID,
		SenderType: msg.Sender.Type,
		SenderID:   msg.Sender.ID,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}
}

func messageResponses(msgs []domain.Message) []dto.MessageResponse {
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return items
}
