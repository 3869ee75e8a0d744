package validation

import (
	"encoding/json"
	"testing"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,role"`
	Status   string `json:"status" validate:"omitempty,ticketstatus"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(registerPayload{Username: "toolong", Email: "nope", Role: "admin", Status: "closed"})
	de := apperrors.ToDomainError(err)
	if de == nil || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"username": "must be at most 5 characters",
		"email":    "must be a valid email",
		"role":     "must be one of: customer agent",
		"status":   "must be one of: open in_progress resolved",
	}
	for field, msg := range want {
		if got := de.Details[field]; got != msg {
			t.Errorf("%s: expected %q, got %v", field, msg, got)
		}
	}
}

func TestStructAcceptsValidPayload(t *testing.T) {
	if err := Struct(registerPayload{Username: "bob", Email: "bob@example.com", Role: "agent"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestBindErrorOnMalformedJSON(t *testing.T) {
	var payload registerPayload
	jsonErr := json.Unmarshal([]byte(`{"username": 1}`), &payload)
	de := apperrors.ToDomainError(BindError(jsonErr))
	if de.Details["payload"] != "invalid json" {
		t.Errorf("unexpected details %v", de.Details)
	}
}
