package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for customers and agents.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), caller, access.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ReplaceTicket PUT /tickets/:id.
func (h *TicketsHandler) ReplaceTicket(c *fiber.Ctx) error {
	var req dto.ReplaceTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status := req.Status
	patch := domain.TicketPatch{Title: &req.Title, Description: &req.Description, Status: &status}
	if err := applyAssignee(&patch, dto.OptionalID{Set: true, Value: req.AssignedTo.Value}); err != nil {
		return err
	}
	return h.update(c, patch)
}

// PatchTicket PATCH /tickets/:id.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	var req dto.PatchTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := domain.TicketPatch{Title: req.Title, Description: req.Description, Status: req.Status}
	if err := applyAssignee(&patch, req.AssignedTo); err != nil {
		return err
	}
	return h.update(c, patch)
}

func (h *TicketsHandler) update(c *fiber.Ctx, patch domain.TicketPatch) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), caller, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SendEmail POST /tickets/:id/send-email.
func (h *TicketsHandler) SendEmail(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if err := h.service.SendStatusEmail(c.UserContext(), caller, id); err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOTIFICATION_FAILED" {
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Message})
		}
		return err
	}
	return c.JSON(fiber.Map{"success": "Email sent successfully."})
}

func callerFromContext(c *fiber.Ctx) (access.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return access.Caller{}, apperrors.NewUnauthorized("user required")
	}
	return access.Caller{User: principal.User, Profile: principal.Profile}, nil
}

// ticketID returns the path id. Malformed ids cannot name a ticket.
func ticketID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", access.ErrTicketNotFound
	}
	return id, nil
}

func applyAssignee(patch *domain.TicketPatch, assignee dto.OptionalID) error {
	if !assignee.Set {
		return nil
	}
	if assignee.Value == nil {
		patch.ClearAssignee = true
		return nil
	}
	if _, err := uuid.Parse(*assignee.Value); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{
			"assigned_to": "must be a valid UUID",
		})
	}
	patch.AssignedToID = assignee.Value
	return nil
}
