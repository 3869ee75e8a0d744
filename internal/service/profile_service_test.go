package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/memrepo"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestCreateProfile(t *testing.T) {
	store := memrepo.NewStore()
	svc := NewProfileService(store.Profiles())
	ctx := context.Background()
	ghost := addCaller(store, "ghost", "")
	alice := addCaller(store, "alice", domain.RoleCustomer)

	if _, err := svc.CreateProfile(ctx, ghost, domain.Role("root")); apperrors.ToDomainError(err).Code != "VALIDATION_FAILED" {
		t.Errorf("expected validation error, got %v", err)
	}

	if _, err := svc.CreateProfile(ctx, ghost, domain.RoleAgent); !errors.Is(err, ErrAgentSelfGrant) {
		t.Errorf("expected agent self-grant to be forbidden, got %v", err)
	}

	profile, err := svc.CreateProfile(ctx, ghost, domain.RoleCustomer)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if profile.UserID != ghost.User.ID || profile.IsAgent() {
		t.Errorf("unexpected profile %+v", profile)
	}

	if _, err := svc.CreateProfile(ctx, alice, domain.RoleAgent); apperrors.ToDomainError(err).Code != "CONFLICT" {
		t.Errorf("expected conflict for existing profile, got %v", err)
	}
}

func TestDeleteProfileOwnerOnly(t *testing.T) {
	f := newTicketFixture()
	svc := NewProfileService(f.store.Profiles())
	ctx := context.Background()
	alice := addCaller(f.store, "alice", domain.RoleCustomer)
	bob := addCaller(f.store, "bob", domain.RoleAgent)
	mustCreate(t, f, alice, "x")

	if err := svc.DeleteProfile(ctx, bob, alice.User.ID); apperrors.ToDomainError(err).Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.DeleteProfile(ctx, alice, alice.User.ID); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if _, err := svc.GetProfile(ctx, alice.User.ID); apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Errorf("expected profile to be gone, got %v", err)
	}

	alice.Profile = nil
	tickets, err := f.service.ListTickets(ctx, alice)
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	if len(tickets) != 0 {
		t.Errorf("caller without profile must see nothing, got %d", len(tickets))
	}

	if _, err := svc.CreateProfile(ctx, bob, domain.RoleCustomer); apperrors.ToDomainError(err).Code != "CONFLICT" {
		t.Errorf("agent with a profile must not recreate it, got %v", err)
	}
}

func TestListProfiles(t *testing.T) {
	store := memrepo.NewStore()
	svc := NewProfileService(store.Profiles())

	profiles, err := svc.ListProfiles(context.Background())
	if err != nil || profiles == nil || len(profiles) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", profiles, err)
	}
	addCaller(store, "alice", domain.RoleCustomer)
	addCaller(store, "bob", domain.RoleAgent)
	profiles, _ = svc.ListProfiles(context.Background())
	if len(profiles) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(profiles))
	}
}
