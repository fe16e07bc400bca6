package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/notifications/websocket"
	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Contact holds the delivery addresses of one user.
type Contact struct {
	Email string
	Phone string
}

// ContactDirectory resolves delivery addresses for a recipient.
type ContactDirectory interface {
	Contact(ctx context.Context, userID uuid.UUID) (Contact, error)
}

// Pusher pushes realtime frames; satisfied by the websocket manager.
type Pusher interface {
	SendToUser(userID uuid.UUID, msg websocket.Message)
}

// EmailSender and SMSSender are the outbound channels. Either may be nil
// when the deployment has the channel disabled.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// Service persists and delivers notifications. Delivery is strictly best
// effort: a committed workflow transition is never rolled back because a
// channel failed, so every channel error ends at the log.
type Service struct {
	store    Store
	pusher   Pusher
	email    EmailSender
	sms      SMSSender
	contacts ContactDirectory
	logger   *zap.Logger
}

func NewService(store Store, pusher Pusher, email EmailSender, sms SMSSender, contacts ContactDirectory, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		pusher:   pusher,
		email:    email,
		sms:      sms,
		contacts: contacts,
		logger:   logger,
	}
}

// Dispatch fans the intents out to the in-app store and the configured
// channels. Phase two of the commit-then-notify contract: the caller has
// already persisted the state change.
func (s *Service) Dispatch(ctx context.Context, intents []workflow.NotificationIntent) {
	for _, intent := range intents {
		row := &Notification{
			RecipientID: intent.RecipientID,
			Kind:        string(intent.Kind),
			Title:       intent.Title,
			Message:     intent.Message,
		}
		if intent.RequestID != uuid.Nil {
			requestID := intent.RequestID
			row.RequestID = &requestID
		}

		if err := s.store.Create(ctx, row); err != nil {
			s.logger.Error("failed to persist notification",
				zap.String("recipient_id", intent.RecipientID.String()),
				zap.String("kind", string(intent.Kind)),
				zap.Error(err))
		}

		if s.pusher != nil {
			s.pusher.SendToUser(intent.RecipientID, websocket.Message{
				Type:      "notification",
				Payload:   row,
				Timestamp: time.Now().UTC(),
			})
		}

		s.deliverExternal(ctx, intent)
	}
}

func (s *Service) deliverExternal(ctx context.Context, intent workflow.NotificationIntent) {
	if s.email == nil && s.sms == nil {
		return
	}

	contact, err := s.contacts.Contact(ctx, intent.RecipientID)
	if err != nil {
		s.logger.Warn("failed to resolve notification contact",
			zap.String("recipient_id", intent.RecipientID.String()),
			zap.Error(err))
		return
	}

	if s.email != nil && contact.Email != "" {
		if err := s.email.Send(ctx, contact.Email, intent.Title, intent.Message); err != nil {
			s.logger.Warn("email delivery failed",
				zap.String("recipient_id", intent.RecipientID.String()),
				zap.Error(err))
		}
	}

	if s.sms != nil && contact.Phone != "" {
		if err := s.sms.Send(ctx, contact.Phone, intent.Title+": "+intent.Message); err != nil {
			s.logger.Warn("sms delivery failed",
				zap.String("recipient_id", intent.RecipientID.String()),
				zap.Error(err))
		}
	}
}

// List returns a page of a user's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

// UnreadCount returns the number of unread notifications for a user.
func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.store.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, recipientID uuid.UUID, id uint) error {
	return s.store.MarkRead(ctx, recipientID, id)
}

// MarkAllRead marks every notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.store.MarkAllRead(ctx, recipientID)
}
