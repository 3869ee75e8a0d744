package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/mailer"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var errNoRecipient = errors.New("ticket customer has no email address")

// NotificationService emails customers about their tickets.
type NotificationService struct {
	sender mailer.Sender
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(sender mailer.Sender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		sender: sender,
		logger: logger,
		cfg:    cfg,
	}
}

// TicketUpdated emails the customer when the persisted status differs from
// previous. It is called once by the ticket update path after commit; send
// failures are logged and never undo the update.
func (n *NotificationService) TicketUpdated(ctx context.Context, previous domain.TicketStatus, ticket *domain.Ticket) bool {
	if ticket == nil || previous == ticket.Status {
		return false
	}
	if err := n.send(ctx, mailer.StatusUpdate, ticket, recipientName(ticket.Customer)); err != nil {
		n.logger.Error("status update email failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("old_status", string(previous)),
			zap.String("new_status", string(ticket.Status)),
			zap.Error(err))
		return false
	}
	n.logger.Info("status update email sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("old_status", string(previous)),
		zap.String("new_status", string(ticket.Status)))
	return true
}

// SendCurrentStatus unconditionally emails the customer the ticket's current status.
func (n *NotificationService) SendCurrentStatus(ctx context.Context, ticket *domain.Ticket) error {
	var recipient string
	if ticket != nil && ticket.Customer != nil {
		recipient = ticket.Customer.Email
	}
	if err := n.send(ctx, mailer.CurrentStatus, ticket, recipient); err != nil {
		return apperrors.NewNotificationError(err)
	}
	return nil
}

func (n *NotificationService) send(ctx context.Context, template string, ticket *domain.Ticket, recipient string) error {
	if ticket == nil || ticket.Customer == nil || ticket.Customer.Email == "" {
		return errNoRecipient
	}
	msg, err := mailer.Build(template, ticket.Customer.Email, mailer.TicketData{
		Recipient: recipient,
		Title:     ticket.Title,
		Status:    string(ticket.Status),
		Signature: n.cfg.SupportSignature,
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}

func recipientName(customer *domain.UserRef) string {
	if customer == nil {
		return ""
	}
	if customer.Username != "" {
		return customer.Username
	}
	return customer.Email
}
