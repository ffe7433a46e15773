package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/dto"
	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/service"
)

// ClientHandler exposes the client surface: submit a query, list own queries.
type ClientHandler struct {
	lifecycle *service.LifecycleService
}

// NewClientHandler constructs handler.
func NewClientHandler(lifecycle *service.LifecycleService) *ClientHandler {
	return &ClientHandler{lifecycle: lifecycle}
}

// SubmitQuery handles POST /client/queries.
func (h *ClientHandler) SubmitQuery(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.SubmitQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Heading) == "" || strings.TrimSpace(req.Description) == "" {
		return fiber.NewError(http.StatusBadRequest, "heading and description required")
	}

	record, err := h.lifecycle.Submit(c.Context(), service.SubmitInput{
		CreatedBy:    principal.Username,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Heading:      req.Heading,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewQueryResponse(record, time.Now()),
	})
}

// ListMyQueries handles GET /client/queries.
func (h *ClientHandler) ListMyQueries(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	records, err := h.lifecycle.ListMine(c.Context(), principal.Username)
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]dto.QueryResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewQueryResponse(&records[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}
