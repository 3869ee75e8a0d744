package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// ErrUnknownAssignee rejects assignment to a user that does not exist.
var ErrUnknownAssignee = apperrors.NewValidationError("invalid payload", map[string]any{
	"assigned_to": "user does not exist",
})

// TicketService coordinates ticket workflows. Every read and write goes
// through the caller's access policy before reaching the store.
type TicketService struct {
	tickets  repository.TicketRepository
	users    repository.UserRepository
	notifier *NotificationService
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Notifier   *NotificationService
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		notifier: deps.Notifier,
	}
}

// ListTickets returns the caller's visible set.
func (s *TicketService) ListTickets(ctx context.Context, caller access.Caller) ([]domain.Ticket, error) {
	filter, ok := access.For(caller).Scope()
	if !ok {
		return []domain.Ticket{}, nil
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches a ticket in the caller's visible set. Tickets outside it
// are reported as not found.
func (s *TicketService) GetTicket(ctx context.Context, caller access.Caller, ticketID string) (*domain.Ticket, error) {
	policy := access.For(caller)
	if _, ok := policy.Scope(); !ok {
		return nil, access.ErrTicketNotFound
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, access.ErrTicketNotFound
		}
		return nil, err
	}
	if !policy.CanView(ticket) {
		return nil, access.ErrTicketNotFound
	}
	return ticket, nil
}

// CreateTicket opens a ticket owned by the caller. No notification is sent.
func (s *TicketService) CreateTicket(ctx context.Context, caller access.Caller, req access.CreateRequest) (*domain.Ticket, error) {
	ticket, err := access.For(caller).AuthorizeCreate(req)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.Customer = &domain.UserRef{
		ID:       caller.User.ID,
		Username: caller.User.Username,
		Email:    caller.User.Email,
	}
	return ticket, nil
}

// UpdateTicket is the only path that mutates an existing ticket. The policy
// is checked against the locked row, the store reports the status held
// before the write and the notifier is told exactly once about the
// transition, if any.
func (s *TicketService) UpdateTicket(ctx context.Context, caller access.Caller, ticketID string, patch domain.TicketPatch) (*domain.Ticket, error) {
	policy := access.For(caller)
	current, err := s.GetTicket(ctx, caller, ticketID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeUpdate(current, patch); err != nil {
		return nil, err
	}
	if patch.AssignedToID != nil && !patch.ClearAssignee {
		if _, err := s.users.GetByID(ctx, *patch.AssignedToID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrUnknownAssignee
			}
			return nil, err
		}
	}

	updated, previous, err := s.tickets.Update(ctx, ticketID, patch, func(locked *domain.Ticket) error {
		return policy.AuthorizeUpdate(locked, patch)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, access.ErrTicketNotFound
		}
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TicketUpdated(ctx, previous, updated)
	}
	return updated, nil
}

// DeleteTicket removes a visible ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, caller access.Caller, ticketID string) error {
	ticket, err := s.GetTicket(ctx, caller, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.ErrTicketNotFound
		}
		return err
	}
	return nil
}

// SendStatusEmail emails the customer the current status of a visible ticket.
func (s *TicketService) SendStatusEmail(ctx context.Context, caller access.Caller, ticketID string) error {
	ticket, err := s.GetTicket(ctx, caller, ticketID)
	if err != nil {
		return err
	}
	if s.notifier == nil {
		return apperrors.NewNotificationError(errors.New("notifications not configured"))
	}
	return s.notifier.SendCurrentStatus(ctx, ticket)
}
