package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter narrows ticket listings. A nil CustomerID lists every ticket.
type TicketFilter struct {
	CustomerID *string
}

// TicketGuard inspects the locked row before a write. A non-nil error aborts
// the update and is returned unchanged.
type TicketGuard func(current *domain.Ticket) error

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// Update applies patch under a row lock and returns the persisted ticket
	// together with the status it had before the write. guard may be nil.
	Update(ctx context.Context, id string, patch domain.TicketPatch, guard TicketGuard) (*domain.Ticket, domain.TicketStatus, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const selectTicket = `
        SELECT t.id, t.title, t.description, t.status, t.customer_id, t.assigned_to_id,
               t.created_at, t.updated_at,
               c.username, c.email, a.username, a.email
        FROM tickets t
        JOIN users c ON c.id = t.customer_id
        LEFT JOIN users a ON a.id = t.assigned_to_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, customer_id, assigned_to_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.CustomerID,
		ticket.AssignedToID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return scanTicket(r.pool.QueryRow(ctx, selectTicket+` WHERE t.id=$1`, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("t.customer_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC`, selectTicket, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch domain.TicketPatch, guard TicketGuard) (*domain.Ticket, domain.TicketStatus, error) {
	const lock = selectTicket + ` WHERE t.id=$1 FOR UPDATE OF t`
	const update = `
        UPDATE tickets SET
            title = COALESCE($2::text, title),
            description = COALESCE($3::text, description),
            status = COALESCE($4::text, status),
            assigned_to_id = CASE WHEN $5::boolean THEN NULL ELSE COALESCE($6::uuid, assigned_to_id) END,
            updated_at = NOW()
        WHERE id=$1`

	var (
		previous domain.TicketStatus
		ticket   *domain.Ticket
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanTicket(tx.QueryRow(ctx, lock, id))
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		previous = current.Status
		if _, err := tx.Exec(ctx, update, id,
			patch.Title,
			patch.Description,
			patch.Status,
			patch.ClearAssignee,
			patch.AssignedToID,
		); err != nil {
			return err
		}
		ticket, err = scanTicket(tx.QueryRow(ctx, selectTicket+` WHERE t.id=$1`, id))
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, previous, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket           domain.Ticket
		customer         domain.UserRef
		assigneeUsername *string
		assigneeEmail    *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CustomerID,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&customer.Username,
		&customer.Email,
		&assigneeUsername,
		&assigneeEmail,
	); err != nil {
		return nil, err
	}
	customer.ID = ticket.CustomerID
	ticket.Customer = &customer
	if ticket.AssignedToID != nil && assigneeUsername != nil {
		ticket.AssignedTo = &domain.UserRef{ID: *ticket.AssignedToID, Username: *assigneeUsername}
		if assigneeEmail != nil {
			ticket.AssignedTo.Email = *assigneeEmail
		}
	}
	return &ticket, nil
}
