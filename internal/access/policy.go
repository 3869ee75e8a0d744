// Package access decides which tickets a caller may see and which fields it may write.
//
// Roles map onto three policies: callers without a profile see nothing,
// customers see and edit the content of their own tickets, and agents see and
// edit every ticket. Policies are pure and never touch the store.
package access

import (
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Caller is the identity the policy is computed for.
type Caller struct {
	User    *domain.User
	Profile *domain.UserProfile
}

// CreateRequest is the client payload for a new ticket. Customer and assignee
// are absent: ownership always comes from the caller.
type CreateRequest struct {
	Title       string
	Description string
	Status      *domain.TicketStatus
}

// Policy is the role-specific permission set.
type Policy interface {
	// Scope returns the store filter for the visible set. ok=false means the
	// visible set is empty and the store must not be queried.
	Scope() (filter repository.TicketFilter, ok bool)
	// CanView reports whether ticket belongs to the visible set.
	CanView(ticket *domain.Ticket) bool
	// AuthorizeCreate builds the ticket to persist from a create request.
	AuthorizeCreate(req CreateRequest) (*domain.Ticket, error)
	// AuthorizeUpdate checks that ticket is visible and patch only writes permitted fields.
	AuthorizeUpdate(ticket *domain.Ticket, patch domain.TicketPatch) error
}

// For resolves the policy for caller.
func For(caller Caller) Policy {
	if caller.User == nil || caller.Profile == nil {
		return denyAll{}
	}
	switch caller.Profile.Role {
	case domain.RoleCustomer:
		return customerPolicy{userID: caller.User.ID}
	case domain.RoleAgent:
		return agentPolicy{userID: caller.User.ID}
	default:
		return denyAll{}
	}
}

// ErrTicketNotFound hides tickets outside the caller's visible set.
var ErrTicketNotFound = apperrors.NewNotFound("ticket", nil)

// ErrProtectedField rejects customer writes to status or assignment.
var ErrProtectedField = apperrors.NewForbidden("only agents may change ticket status or assignment")

// ErrNoProfile rejects writes from callers without a role.
var ErrNoProfile = apperrors.NewForbidden("user profile not found")

type denyAll struct{}

func (denyAll) Scope() (repository.TicketFilter, bool) { return repository.TicketFilter{}, false }

func (denyAll) CanView(*domain.Ticket) bool { return false }

func (denyAll) AuthorizeCreate(CreateRequest) (*domain.Ticket, error) { return nil, ErrNoProfile }

func (denyAll) AuthorizeUpdate(*domain.Ticket, domain.TicketPatch) error { return ErrTicketNotFound }

type customerPolicy struct {
	userID string
}

func (p customerPolicy) Scope() (repository.TicketFilter, bool) {
	id := p.userID
	return repository.TicketFilter{CustomerID: &id}, true
}

func (p customerPolicy) CanView(ticket *domain.Ticket) bool {
	return ticket != nil && ticket.CustomerID == p.userID
}

// Customers always open tickets in the open state.
func (p customerPolicy) AuthorizeCreate(req CreateRequest) (*domain.Ticket, error) {
	return newTicket(p.userID, req, domain.TicketStatusOpen), nil
}

func (p customerPolicy) AuthorizeUpdate(ticket *domain.Ticket, patch domain.TicketPatch) error {
	if !p.CanView(ticket) {
		return ErrTicketNotFound
	}
	// Echoing the current values back, as a full PUT does, is not a write.
	if patch.ChangesStatus(ticket) || patch.ChangesAssignment(ticket) {
		return ErrProtectedField
	}
	return nil
}

type agentPolicy struct {
	userID string
}

func (agentPolicy) Scope() (repository.TicketFilter, bool) { return repository.TicketFilter{}, true }

func (agentPolicy) CanView(ticket *domain.Ticket) bool { return ticket != nil }

func (p agentPolicy) AuthorizeCreate(req CreateRequest) (*domain.Ticket, error) {
	status := domain.TicketStatusOpen
	if req.Status != nil {
		status = *req.Status
	}
	return newTicket(p.userID, req, status), nil
}

func (p agentPolicy) AuthorizeUpdate(ticket *domain.Ticket, _ domain.TicketPatch) error {
	if !p.CanView(ticket) {
		return ErrTicketNotFound
	}
	return nil
}

func newTicket(customerID string, req CreateRequest, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		CustomerID:  customerID,
	}
}
