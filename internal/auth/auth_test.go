package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := ComparePassword(hash, "hunter3"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := ComparePassword("not-a-hash", "hunter2"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch for malformed hash, got %v", err)
	}
}

func TestIssueAndParseTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute, time.Hour)
	user := &domain.User{ID: "u1", Username: "bob", Email: "bob@example.com"}
	profile := &domain.UserProfile{UserID: "u1", Role: domain.RoleAgent}

	pair, err := tm.IssuePair(user, profile)
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	claims, err := tm.ParseToken(pair.Access, domain.TokenTypeAccess)
	if err != nil {
		t.Fatalf("ParseToken(access) failed: %v", err)
	}
	if claims.Subject != "u1" || claims.Username != "bob" || claims.Email != "bob@example.com" || !claims.IsAgent {
		t.Errorf("unexpected access claims %+v", claims)
	}

	refresh, err := tm.ParseToken(pair.Refresh, domain.TokenTypeRefresh)
	if err != nil {
		t.Fatalf("ParseToken(refresh) failed: %v", err)
	}
	if refresh.ID != pair.RefreshID {
		t.Errorf("expected refresh jti %s, got %s", pair.RefreshID, refresh.ID)
	}

	if _, err := tm.ParseToken(pair.Refresh, domain.TokenTypeAccess); err == nil {
		t.Error("refresh token must not pass as access token")
	}
	if _, err := NewTokenManager("other", time.Minute, time.Hour).ParseToken(pair.Access, domain.TokenTypeAccess); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute, time.Hour)
	tm.accessTTL = -time.Minute
	pair, err := tm.IssuePair(&domain.User{ID: "u1"}, nil)
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}
	if _, err := tm.ParseToken(pair.Access, domain.TokenTypeAccess); err == nil {
		t.Error("expired token must be rejected")
	}
}
