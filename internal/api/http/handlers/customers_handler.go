package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devtama101/customer-support-dashboard/internal/api/dto"
	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/service"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// CustomersHandler manages the customer directory endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// Create POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.Create(c.UserContext(), service.CustomerInput{
		Email:    req.Email,
		Name:     req.Name,
		Metadata: req.Metadata.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// Get GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// List GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	customers, err := h.customers.List(c.UserContext(), optionalQuery(c, "search"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.Update(c.UserContext(), c.Params("id"), service.CustomerInput{
		Email:    req.Email,
		Name:     req.Name,
		Metadata: req.Metadata.ToDomain(),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// UpdateMetadata PATCH /customers/:id/metadata. Merges the supplied
// fields into the stored metadata; absent fields are kept.
func (h *CustomersHandler) UpdateMetadata(c *fiber.Ctx) error {
	var req dto.CustomerMetadataPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.UpdateMetadata(c.UserContext(), c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Delete DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.customers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        customer.ID,
		Email:     customer.Email,
		Name:      customer.Name,
		Metadata:  dto.MetadataFromDomain(customer.Metadata),
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}
