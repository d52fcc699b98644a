package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/dto"
	"github.com/devtama101/customer-support-dashboard/internal/service"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// WidgetHandler serves the public intake endpoint.
type WidgetHandler struct {
	widget *service.WidgetService
}

// NewWidgetHandler constructs handler.
func NewWidgetHandler(widget *service.WidgetService) *WidgetHandler {
	return &WidgetHandler{widget: widget}
}

// Intake POST /widget/tickets.
func (h *WidgetHandler) Intake(c *fiber.Ctx) error {
	var req dto.WidgetIntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.widget.Intake(c.UserContext(), service.WidgetIntakeInput{
		TeamID:  req.TeamID,
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.WidgetIntakeResponse{Reference: result.Reference}})
}
