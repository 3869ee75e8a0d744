package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// OptionalID is a JSON field that distinguishes "absent" from explicit null.
type OptionalID struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only invoked when the key is present.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// CreateTicketRequest payload. Customer and assignee are never read from the client.
type CreateTicketRequest struct {
	Title       string               `json:"title" validate:"required,max=200"`
	Description string               `json:"description" validate:"required"`
	Status      *domain.TicketStatus `json:"status" validate:"omitempty,ticketstatus"`
}

// ReplaceTicketRequest is the PUT payload. Omitting assigned_to unassigns the ticket.
type ReplaceTicketRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"required"`
	Status      domain.TicketStatus `json:"status" validate:"required,ticketstatus"`
	AssignedTo  OptionalID          `json:"assigned_to"`
}

// PatchTicketRequest is the PATCH payload; absent fields are untouched.
type PatchTicketRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description" validate:"omitempty,min=1"`
	Status      *domain.TicketStatus `json:"status" validate:"omitempty,ticketstatus"`
	AssignedTo  OptionalID           `json:"assigned_to"`
}

// Normalize trims free-text fields so blank input fails validation.
func (r *CreateTicketRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *ReplaceTicketRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *PatchTicketRequest) Normalize() {
	r.Title = trimmed(r.Title)
	r.Description = trimmed(r.Description)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// UserRefResponse is the nested user projection.
type UserRefResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TicketResponse is the ticket representation returned by every ticket endpoint.
type TicketResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Customer    *UserRefResponse    `json:"customer"`
	AssignedTo  *UserRefResponse    `json:"assigned_to"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Customer:    userRef(ticket.Customer),
		AssignedTo:  userRef(ticket.AssignedTo),
	}
}

func userRef(ref *domain.UserRef) *UserRefResponse {
	if ref == nil {
		return nil
	}
	return &UserRefResponse{ID: ref.ID, Username: ref.Username, Email: ref.Email}
}
