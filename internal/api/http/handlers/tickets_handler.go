package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-tracker/internal/api/dto"
	"github.com/spec-kit/query-tracker/internal/auth"
	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/service"
	apperrors "github.com/spec-kit/query-tracker/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket mutations shared by Support and Admin:
// single update, bulk update, and comments.
type TicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle}
}

// UpdateTicket handles PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid ticket id")
	}

	var req dto.UpdateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	status, priority, err := parseStatusPriority(req.Status, req.Priority)
	if err != nil {
		return err
	}

	record, err := h.lifecycle.Update(c.Context(), id, service.UpdateInput{
		Status:      status,
		Heading:     req.Heading,
		Description: req.Description,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		Actor:       principal.Username,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewQueryResponse(record, time.Now())})
}

// BulkUpdate handles POST /tickets/bulk. Per-id failures do not roll back the
// rest of the batch.
func (h *TicketsHandler) BulkUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(http.StatusBadRequest, "ids required")
	}
	status, priority, err := parseStatusPriority(req.Status, req.Priority)
	if err != nil {
		return err
	}

	result, err := h.lifecycle.BulkUpdate(c.Context(), req.IDs, status, priority, req.AssignedTo, principal.Username)
	if err != nil {
		return err
	}

	response := dto.BulkUpdateResponse{Updated: result.Updated, Failed: []dto.BulkFailure{}}
	for id, failure := range result.Failed {
		domainErr := apperrors.ToDomainError(failure)
		response.Failed = append(response.Failed, dto.BulkFailure{
			ID:      id,
			Code:    domainErr.Code,
			Message: domainErr.Message,
		})
	}
	return c.JSON(fiber.Map{"data": response})
}

// AddComment handles POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid ticket id")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Text == "" {
		return fiber.NewError(http.StatusBadRequest, "text required")
	}

	comment, err := h.lifecycle.AddComment(c.Context(), id, principal.Username, req.Text, req.Sentiment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListComments handles GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid ticket id")
	}

	comments, err := h.lifecycle.ListComments(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		QueryID:     comment.QueryID,
		CommentedBy: comment.CommentedBy,
		Text:        comment.Text,
		Sentiment:   comment.Sentiment,
		CommentedAt: comment.CommentedAt,
	}
}

func parseStatusPriority(statusStr, priorityStr string) (domain.QueryStatus, domain.QueryPriority, error) {
	status, ok := domain.ParseStatus(statusStr)
	if !ok {
		return "", "", fiber.NewError(http.StatusBadRequest, "status must be Open, In Progress, or Closed")
	}
	priority, ok := domain.ParsePriority(priorityStr)
	if !ok {
		return "", "", fiber.NewError(http.StatusBadRequest, "priority must be Low, Medium, or High")
	}
	return status, priority, nil
}
