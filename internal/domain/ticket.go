package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Valid reports whether s is a recognized status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	default:
		return false
	}
}

// UserRef is the public projection of a User embedded in tickets.
type UserRef struct {
	ID       string
	Username string
	Email    string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	Title        string
	Description  string
	Status       TicketStatus
	CustomerID   string
	AssignedToID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated on reads.
	Customer   *UserRef
	AssignedTo *UserRef
}

// TicketPatch carries the fields a caller asked to change. Nil means untouched;
// ClearAssignee unassigns the ticket.
type TicketPatch struct {
	Title         *string
	Description   *string
	Status        *TicketStatus
	AssignedToID  *string
	ClearAssignee bool
}

// ChangesStatus reports whether applying the patch would alter t's status.
func (p TicketPatch) ChangesStatus(t *Ticket) bool {
	return p.Status != nil && *p.Status != t.Status
}

// ChangesAssignment reports whether applying the patch would alter t's assignee.
func (p TicketPatch) ChangesAssignment(t *Ticket) bool {
	switch {
	case p.ClearAssignee:
		return t.AssignedToID != nil
	case p.AssignedToID != nil:
		return t.AssignedToID == nil || *t.AssignedToID != *p.AssignedToID
	default:
		return false
	}
}

// Apply writes the patch onto t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ClearAssignee {
		t.AssignedToID = nil
		t.AssignedTo = nil
	} else if p.AssignedToID != nil {
		id := *p.AssignedToID
		t.AssignedToID = &id
		t.AssignedTo = nil
	}
}
