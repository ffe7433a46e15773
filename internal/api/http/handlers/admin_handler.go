package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/dto"
	"github.com/spec-kit/query-tracker/internal/service"
	"github.com/spec-kit/query-tracker/internal/session"
)

// AdminHandler exposes the admin surface: global metrics, the full ticket
// table, and the support chatter collected in the session store.
type AdminHandler struct {
	lifecycle *service.LifecycleService
	metrics   *service.MetricsService
	sessions  *session.Store
}

// NewAdminHandler constructs handler.
func NewAdminHandler(lifecycle *service.LifecycleService, metrics *service.MetricsService, sessions *session.Store) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, metrics: metrics, sessions: sessions}
}

// ListTickets handles GET /admin/tickets.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
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

// Metrics handles GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	report, err := h.metrics.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ListChat handles GET /admin/chat.
func (h *AdminHandler) ListChat(c *fiber.Ctx) error {
	messages, err := h.sessions.ListChat(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messages})
}

// ListDoubts handles GET /admin/doubts.
func (h *AdminHandler) ListDoubts(c *fiber.Ctx) error {
	doubts, err := h.sessions.ListDoubts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doubts})
}

// Availability handles GET /admin/availability.
func (h *AdminHandler) Availability(c *fiber.Ctx) error {
	status, err := h.sessions.Availability(c.Context())
	if err != nil {
		return err
	}
	available := []string{}
	notAvailable := []string{}
	for username, label := range status {
		if label == "Available" {
			available = append(available, username)
		} else {
			notAvailable = append(notAvailable, username)
		}
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"available":     available,
			"not_available": notAvailable,
		},
	})
}
