package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	conflict := NewConflict("account already exists", nil)

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error", conflict, "CONFLICT", http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("register: %w", conflict), "CONFLICT", http.StatusConflict},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"notification", NewNotificationError(errors.New("smtp down")), "NOTIFICATION_FAILED", http.StatusInternalServerError},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			if de.Code != tt.code || de.HTTPStatus != tt.status {
				t.Errorf("expected %s/%d, got %s/%d", tt.code, tt.status, de.Code, de.HTTPStatus)
			}
		})
	}
}

func TestNilErrors(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Error("ToDomainError(nil) must be nil")
	}
	if err := MapError(nil); err != nil {
		t.Errorf("MapError(nil) must be a nil error, got %#v", err)
	}
}

func TestNotificationErrorKeepsTransportMessage(t *testing.T) {
	cause := errors.New("mailbox unavailable")
	err := NewNotificationError(cause)
	if ToDomainError(err).Message != "mailbox unavailable" {
		t.Errorf("unexpected message %q", ToDomainError(err).Message)
	}
	if !errors.Is(err, cause) {
		t.Error("notification error must unwrap to its cause")
	}
}
