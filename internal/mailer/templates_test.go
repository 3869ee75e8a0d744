package mailer

import (
	"strings"
	"testing"
)

func TestRenderStatusUpdate(t *testing.T) {
	msg, err := Build(StatusUpdate, "a@x.com", TicketData{
		Recipient: "alice",
		Title:     "Printer broken",
		Status:    "resolved",
		Signature: "Support Team",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if msg.To != "a@x.com" {
		t.Errorf("expected recipient a@x.com, got %q", msg.To)
	}
	if msg.Subject != `Ticket "Printer broken" Status Update` {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Dear alice", "updated to: resolved", "Support Team"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Text)
		}
	}
}

func TestRenderCurrentStatus(t *testing.T) {
	subject, text, err := Render(CurrentStatus, TicketData{Recipient: "a@x.com", Title: "VPN", Status: "in_progress"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(subject, "VPN") {
		t.Errorf("subject should contain title, got %q", subject)
	}
	if !strings.Contains(text, "is currently: in_progress") {
		t.Errorf("unexpected body:\n%s", text)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := Render("missing", TicketData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
