// Package memrepo provides in-memory repositories with the same contracts as
// the Postgres and Redis implementations. Tests use it in place of a database.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Store holds users, profiles and tickets shared by the repositories.
type Store struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User
	profiles map[string]*domain.UserProfile
	tickets  map[string]*domain.Ticket

	// UsernameLookups counts GetByUsername calls.
	UsernameLookups int
	// TicketLists counts ticket list queries.
	TicketLists     int
	// BeforeUpdate, when set, runs once at the start of the next ticket
	// update, before the row is locked.
	BeforeUpdate    func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:    map[string]*domain.User{},
		profiles: map[string]*domain.UserProfile{},
		tickets:  map[string]*domain.Ticket{},
	}
}

// nextID returns uuid-shaped ids so HTTP path validation accepts them.
func (s *Store) nextID() string {
	s.seq++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.seq)
}

// AddUser inserts a user and, when role is non-empty, its profile.
func (s *Store) AddUser(username string, role domain.Role) (*domain.User, *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	user := &domain.User{ID: s.nextID(), Username: username, Email: username + "@x.com", CreatedAt: now, UpdatedAt: now}
	s.users[user.ID] = user
	if role == "" {
		return cloneUser(user), nil
	}
	profile := &domain.UserProfile{UserID: user.ID, Role: role, CreatedAt: now, User: user}
	s.profiles[user.ID] = profile
	return cloneUser(user), cloneProfile(profile)
}

// UserCount reports the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// DropProfile removes a profile directly, bypassing repository rules.
func (s *Store) DropProfile(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
}

// Users returns a UserRepository over the store.
func (s *Store) Users() repository.UserRepository { return users{s} }

// Profiles returns a ProfileRepository over the store.
func (s *Store) Profiles() repository.ProfileRepository { return profiles{s} }

// Tickets returns a TicketRepository over the store.
func (s *Store) Tickets() repository.TicketRepository { return tickets{s} }

func cloneUser(u *domain.User) *domain.User {
	copied := *u
	return &copied
}

func cloneProfile(p *domain.UserProfile) *domain.UserProfile {
	copied := *p
	if p.User != nil {
		copied.User = cloneUser(p.User)
	}
	return &copied
}

func (s *Store) userRef(id string) *domain.UserRef {
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	return &domain.UserRef{ID: user.ID, Username: user.Username, Email: user.Email}
}

func (s *Store) hydrate(t domain.Ticket) *domain.Ticket {
	t.Customer = s.userRef(t.CustomerID)
	t.AssignedTo = nil
	if t.AssignedToID != nil {
		id := *t.AssignedToID
		t.AssignedToID = &id
		t.AssignedTo = s.userRef(id)
	}
	return &t
}

type users struct{ *Store }

func (r users) CreateWithProfile(_ context.Context, user *domain.User, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.nextID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	profile.UserID = user.ID
	profile.CreatedAt = user.CreatedAt
	profile.User = user
	r.profiles[user.ID] = cloneProfile(profile)
	return nil
}

func (r users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return cloneUser(user), nil
	}
	return nil, pgx.ErrNoRows
}

func (r users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r users) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UsernameLookups++
	for _, user := range r.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

type profiles struct{ *Store }

func (r profiles) Create(_ context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; ok {
		return repository.ErrDuplicate
	}
	profile.CreatedAt = time.Now()
	r.profiles[profile.UserID] = cloneProfile(profile)
	return nil
}

func (r profiles) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile, ok := r.profiles[userID]; ok {
		return cloneProfile(profile), nil
	}
	return nil, pgx.ErrNoRows
}

func (r profiles) List(_ context.Context) ([]domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.UserProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, *cloneProfile(profile))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (r profiles) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.profiles, userID)
	return nil
}

type tickets struct{ *Store }

func (r tickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = r.nextID()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r tickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[id]; ok {
		return r.hydrate(*ticket), nil
	}
	return nil, pgx.ErrNoRows
}

func (r tickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TicketLists++
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		result = append(result, *r.hydrate(*ticket))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r tickets) Update(_ context.Context, id string, patch domain.TicketPatch, guard repository.TicketGuard) (*domain.Ticket, domain.TicketStatus, error) {
	if hook := r.BeforeUpdate; hook != nil {
		r.BeforeUpdate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, "", pgx.ErrNoRows
	}
	if guard != nil {
		if err := guard(r.hydrate(*ticket)); err != nil {
			return nil, "", err
		}
	}
	previous := ticket.Status
	patch.Apply(ticket)
	ticket.UpdatedAt = time.Now()
	return r.hydrate(*ticket), previous, nil
}

func (r tickets) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

// RefreshTokens is an in-memory RefreshTokenRepository. TTLs are ignored.
type RefreshTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewRefreshTokens creates an empty token store.
func NewRefreshTokens() *RefreshTokens {
	return &RefreshTokens{tokens: map[string]string{}}
}

func (r *RefreshTokens) Store(_ context.Context, tokenID, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenID] = userID
	return nil
}

func (r *RefreshTokens) Consume(_ context.Context, tokenID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[tokenID]
	if !ok {
		return "", repository.ErrRefreshTokenUnknown
	}
	delete(r.tokens, tokenID)
	return userID, nil
}

func (r *RefreshTokens) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenID)
	return nil
}
