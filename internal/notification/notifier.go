// Package notification records in-app notifications and hands them to the
// mail outbox and the push topic.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"go.uber.org/zap"
)

// Publisher delivers push events. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Options struct {
	MailEnabled bool
	MailSubject string
}

type Notifier struct {
	notifications domain.NotificationRepository
	mails         domain.MailRepository
	profiles      domain.ProfileRepository
	publisher     Publisher
	opts          Options
	log           *zap.Logger
}

// NewNotifier returns a Notifier. publisher may be nil when no broker is configured.
func NewNotifier(
	notifications domain.NotificationRepository,
	mails domain.MailRepository,
	profiles domain.ProfileRepository,
	publisher Publisher,
	opts Options,
	log *zap.Logger,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		mails:         mails,
		profiles:      profiles,
		publisher:     publisher,
		opts:          opts,
		log:           log.With(zap.String("component", "notifier")),
	}
}

// Notify stores the notification and, when enabled, a PENDING mail in the
// caller's transaction. Mail delivery is left to the retry dispatcher; the
// push event is published once the transaction commits.
func (n *Notifier) Notify(ctx context.Context, recipientID, text, originID string, kind domain.NotificationKind) error {
	notification := &domain.Notification{
		RecipientID: recipientID,
		Text:        text,
		Kind:        kind,
		OriginID:    originID,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if n.opts.MailEnabled {
		if err := n.enqueueMail(ctx, recipientID, text); err != nil {
			return err
		}
	}

	if n.publisher != nil {
		domain.AfterCommit(ctx, func(ctx context.Context) {
			n.publish(ctx, notification)
		})
	}
	return nil
}

func (n *Notifier) enqueueMail(ctx context.Context, recipientID, text string) error {
	email, err := n.profiles.GetEmail(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient email: %w", err)
	}
	if email == "" {
		n.log.Debug("recipient has no email, skipping mail", zap.String("recipient_id", recipientID))
		return nil
	}

	mail := &domain.Mail{Subject: n.opts.MailSubject, To: email, Body: text}
	if err := n.mails.Create(ctx, mail); err != nil {
		return fmt.Errorf("failed to enqueue mail: %w", err)
	}
	return nil
}

func (n *Notifier) publish(ctx context.Context, notification *domain.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		n.log.Error("failed to encode push event", zap.String("notification_id", notification.ID), zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, []byte(notification.RecipientID), payload); err != nil {
		n.log.Warn("push delivery failed",
			zap.String("notification_id", notification.ID),
			zap.Error(apperror.TransportFailure(err)),
		)
	}
}
