package domain

import "testing"

func TestTicketPatchChanges(t *testing.T) {
	agent := "agent-1"
	other := "agent-2"
	open := TicketStatusOpen
	resolved := TicketStatusResolved
	assigned := &Ticket{Status: TicketStatusOpen, AssignedToID: &agent}
	unassigned := &Ticket{Status: TicketStatusOpen}

	tests := []struct {
		name       string
		patch      TicketPatch
		ticket     *Ticket
		status     bool
		assignment bool
	}{
		{"empty", TicketPatch{}, assigned, false, false},
		{"same status", TicketPatch{Status: &open}, assigned, false, false},
		{"new status", TicketPatch{Status: &resolved}, assigned, true, false},
		{"same assignee", TicketPatch{AssignedToID: &agent}, assigned, false, false},
		{"new assignee", TicketPatch{AssignedToID: &other}, assigned, false, true},
		{"first assignee", TicketPatch{AssignedToID: &agent}, unassigned, false, true},
		{"clear assigned", TicketPatch{ClearAssignee: true}, assigned, false, true},
		{"clear unassigned", TicketPatch{ClearAssignee: true}, unassigned, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patch.ChangesStatus(tt.ticket); got != tt.status {
				t.Errorf("ChangesStatus = %v, want %v", got, tt.status)
			}
			if got := tt.patch.ChangesAssignment(tt.ticket); got != tt.assignment {
				t.Errorf("ChangesAssignment = %v, want %v", got, tt.assignment)
			}
		})
	}
}

func TestTicketPatchApply(t *testing.T) {
	agent := "agent-1"
	title := "Printer broken"
	resolved := TicketStatusResolved
	ticket := &Ticket{Title: "old", Description: "keep", Status: TicketStatusOpen}

	TicketPatch{Title: &title, Status: &resolved, AssignedToID: &agent}.Apply(ticket)
	if ticket.Title != title || ticket.Description != "keep" || ticket.Status != resolved {
		t.Errorf("unexpected ticket after apply: %+v", ticket)
	}
	if ticket.AssignedToID == nil || *ticket.AssignedToID != agent {
		t.Fatalf("expected assignee %s, got %v", agent, ticket.AssignedToID)
	}
	agent = "mutated"
	if *ticket.AssignedToID != "agent-1" {
		t.Error("apply must copy the assignee id")
	}

	TicketPatch{ClearAssignee: true}.Apply(ticket)
	if ticket.AssignedToID != nil {
		t.Errorf("expected assignee cleared, got %v", *ticket.AssignedToID)
	}
}

func TestRoleAndStatusValidity(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleAgent} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("admin").Valid() {
		t.Error("admin must not be a valid role")
	}
	if TicketStatus("closed").Valid() {
		t.Error("closed must not be a valid status")
	}
	var nilProfile *UserProfile
	if nilProfile.IsAgent() {
		t.Error("nil profile is not an agent")
	}
}
