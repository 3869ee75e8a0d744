package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/mailer"
	"github.com/spec-kit/helpdesk/internal/repository/memrepo"
)

// addCaller inserts a user (and a profile unless role is empty) and returns its caller.
func addCaller(store *memrepo.Store, username string, role domain.Role) access.Caller {
	user, profile := store.AddUser(username, role)
	return access.Caller{User: user, Profile: profile}
}

// recordingSender captures outgoing mail and can be told to fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			RefreshTokenTTLHours:  1,
			BcryptCost:            4,
		},
		Notification: config.NotificationConfig{
			EmailFrom:        "support@example.com",
			SupportSignature: "Support Team",
		},
	}
}

type ticketFixture struct {
	store   *memrepo.Store
	sender  *recordingSender
	service *TicketService
}

func newTicketFixture() *ticketFixture {
	store := memrepo.NewStore()
	sender := &recordingSender{}
	notifier := NewNotificationService(sender, zap.NewNop(), testConfig().Notification)
	return &ticketFixture{
		store:  store,
		sender: sender,
		service: NewTicketService(TicketDependencies{
			TicketRepo: store.Tickets(),
			UserRepo:   store.Users(),
			Notifier:   notifier,
		}),
	}
}
