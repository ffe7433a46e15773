package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/dto"
	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/service"
	"github.com/spec-kit/query-tracker/internal/session"
)

// SupportHandler exposes the support surface: assigned workload, the full
// ticket table, metrics, availability, and messages to admins.
type SupportHandler struct {
	lifecycle *service.LifecycleService
	metrics   *service.MetricsService
	authSvc   *service.AuthService
	sessions  *session.Store
}

// NewSupportHandler constructs handler.
func NewSupportHandler(lifecycle *service.LifecycleService, metrics *service.MetricsService, authSvc *service.AuthService, sessions *session.Store) *SupportHandler {
	return &SupportHandler{lifecycle: lifecycle, metrics: metrics, authSvc: authSvc, sessions: sessions}
}

// ListTickets handles GET /support/tickets (the full table, newest first).
func (h *SupportHandler) ListTickets(c *fiber.Ctx) error {
	records, err := h.lifecycle.ListAll(c.Context())
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

// ListAssigned handles GET /support/tickets/assigned.
func (h *SupportHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	records, err := h.lifecycle.ListAssigned(c.Context(), principal.Username)
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.QueryResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewQueryResponse(&records[i], now))
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"count":   len(items),
			"tickets": items,
		},
	})
}

// ListAgents handles GET /support/agents (assignment choices).
func (h *SupportHandler) ListAgents(c *fiber.Ctx) error {
	names, err := h.authSvc.ListSupportUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": names})
}

// Metrics handles GET /support/metrics.
func (h *SupportHandler) Metrics(c *fiber.Ctx) error {
	report, err := h.metrics.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// PostChat handles POST /support/chat.
func (h *SupportHandler) PostChat(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(http.StatusBadRequest, "message required")
	}

	msg := session.ChatMessage{
		From:    principal.Username,
		To:      "Admin",
		Message: req.Message,
		SentAt:  time.Now(),
	}
	if err := h.sessions.AppendChat(c.Context(), msg); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": msg})
}

// PostDoubt handles POST /support/doubts.
func (h *SupportHandler) PostDoubt(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.DoubtRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Doubt) == "" {
		return fiber.NewError(http.StatusBadRequest, "doubt required")
	}

	doubt := session.Doubt{
		User:    principal.Username,
		Doubt:   req.Doubt,
		AskedAt: time.Now(),
	}
	if err := h.sessions.AppendDoubt(c.Context(), doubt); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": doubt})
}

// SetAvailability handles PUT /support/availability.
func (h *SupportHandler) SetAvailability(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.sessions.SetAvailability(c.Context(), principal.Username, req.Available); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"username": principal.Username, "available": req.Available}})
}
