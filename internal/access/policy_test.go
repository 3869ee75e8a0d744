package access

import (
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func caller(id string, role domain.Role) Caller {
	return Caller{
		User:    &domain.User{ID: id, Username: id},
		Profile: &domain.UserProfile{UserID: id, Role: role},
	}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }

func TestScopeByRole(t *testing.T) {
	tests := []struct {
		name         string
		caller       Caller
		wantOK       bool
		wantCustomer *string
	}{
		{name: "no profile", caller: Caller{User: &domain.User{ID: "u1"}}, wantOK: false},
		{name: "no user", caller: Caller{}, wantOK: false},
		{name: "customer", caller: caller("alice", domain.RoleCustomer), wantOK: true, wantCustomer: strPtr("alice")},
		{name: "agent", caller: caller("bob", domain.RoleAgent), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, ok := For(tt.caller).Scope()
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			switch {
			case tt.wantCustomer == nil && filter.CustomerID != nil:
				t.Errorf("expected unfiltered scope, got customer %q", *filter.CustomerID)
			case tt.wantCustomer != nil && (filter.CustomerID == nil || *filter.CustomerID != *tt.wantCustomer):
				t.Errorf("expected customer filter %q, got %v", *tt.wantCustomer, filter.CustomerID)
			}
		})
	}
}

func TestUnknownRoleDeniesEverything(t *testing.T) {
	c := caller("mallory", domain.Role("admin"))
	policy := For(c)
	if _, ok := policy.Scope(); ok {
		t.Error("unknown role must not see tickets")
	}
	if policy.CanView(&domain.Ticket{CustomerID: "mallory"}) {
		t.Error("unknown role must not view its own ticket")
	}
}

func TestCanView(t *testing.T) {
	assignee := "bob"
	own := &domain.Ticket{ID: "t1", CustomerID: "alice", Status: domain.TicketStatusOpen, AssignedToID: &assignee}
	other := &domain.Ticket{ID: "t2", CustomerID: "carol"}

	customer := For(caller("alice", domain.RoleCustomer))
	if !customer.CanView(own) {
		t.Error("customer should see own ticket")
	}
	if customer.CanView(other) {
		t.Error("customer must not see another customer's ticket")
	}

	agent := For(caller("bob", domain.RoleAgent))
	if !agent.CanView(own) || !agent.CanView(other) {
		t.Error("agent should see every ticket")
	}

	none := For(Caller{User: &domain.User{ID: "alice"}})
	if none.CanView(own) {
		t.Error("caller without profile must see nothing")
	}
}

func TestAuthorizeCreateForcesCustomer(t *testing.T) {
	req := CreateRequest{Title: "  Printer broken ", Description: "paper jam", Status: statusPtr(domain.TicketStatusResolved)}

	ticket, err := For(caller("alice", domain.RoleCustomer)).AuthorizeCreate(req)
	if err != nil {
		t.Fatalf("AuthorizeCreate failed: %v", err)
	}
	if ticket.CustomerID != "alice" {
		t.Errorf("expected customer alice, got %q", ticket.CustomerID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("customer tickets must start open, got %q", ticket.Status)
	}
	if ticket.Title != "Printer broken" {
		t.Errorf("expected trimmed title, got %q", ticket.Title)
	}
	if ticket.AssignedToID != nil {
		t.Error("assignee must not be set on create")
	}

	ticket, err = For(caller("bob", domain.RoleAgent)).AuthorizeCreate(req)
	if err != nil {
		t.Fatalf("AuthorizeCreate failed: %v", err)
	}
	if ticket.CustomerID != "bob" {
		t.Errorf("expected customer bob, got %q", ticket.CustomerID)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Errorf("agent-supplied status should be kept, got %q", ticket.Status)
	}

	ticket, _ = For(caller("bob", domain.RoleAgent)).AuthorizeCreate(CreateRequest{Title: "x", Description: "y"})
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status should default to open, got %q", ticket.Status)
	}

	if _, err := For(Caller{User: &domain.User{ID: "u"}}).AuthorizeCreate(req); !errors.Is(err, ErrNoProfile) {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
}

func TestAuthorizeUpdate(t *testing.T) {
	assignee := "bob"
	own := &domain.Ticket{ID: "t1", CustomerID: "alice", Status: domain.TicketStatusOpen, AssignedToID: &assignee}
	other := &domain.Ticket{ID: "t2", CustomerID: "carol"}
	titleOnly := domain.TicketPatch{Title: strPtr("new title")}
	statusChange := domain.TicketPatch{Status: statusPtr(domain.TicketStatusResolved)}
	assign := domain.TicketPatch{AssignedToID: strPtr("dave")}
	unassign := domain.TicketPatch{ClearAssignee: true}
	echo := domain.TicketPatch{
		Title:        strPtr("same"),
		Status:       statusPtr(domain.TicketStatusOpen),
		AssignedToID: strPtr("bob"),
	}

	customer := For(caller("alice", domain.RoleCustomer))
	agent := For(caller("bob", domain.RoleAgent))

	tests := []struct {
		name   string
		policy Policy
		ticket *domain.Ticket
		patch  domain.TicketPatch
		want   error
	}{
		{"customer edits own title", customer, own, titleOnly, nil},
		{"customer edits other ticket", customer, other, titleOnly, ErrTicketNotFound},
		{"customer changes status", customer, own, statusChange, ErrProtectedField},
		{"customer assigns", customer, own, assign, ErrProtectedField},
		{"customer unassigns", customer, own, unassign, ErrProtectedField},
		{"customer echoes status and assignee", customer, own, echo, nil},
		{"agent changes status", agent, other, statusChange, nil},
		{"agent assigns", agent, own, assign, nil},
		{"no profile", For(Caller{User: &domain.User{ID: "alice"}}), own, titleOnly, ErrTicketNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.AuthorizeUpdate(tt.ticket, tt.patch)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
