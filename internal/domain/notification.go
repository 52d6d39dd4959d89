package domain

import (
	"context"
	"time"
)

type NotificationKind string

const (
	NotificationKindService         NotificationKind = "SERVICE"
	NotificationKindExternalService NotificationKind = "EXTERNAL_SERVICE"
)

// Notification is an inbox entry addressed to one profile. OriginID points at
// the object that caused it (usually a service).
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Text        string           `json:"text"`
	Kind        NotificationKind `json:"kind"`
	OriginID    string           `json:"origin_id"`
	CreatedAt   time.Time        `json:"created_at"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	// MarkRead stamps read_at on the recipient's unread notifications among ids,
	// or on all of them when ids is empty, and returns how many changed.
	MarkRead(ctx context.Context, recipientID string, ids []string) (int, error)
	Delete(ctx context.Context, id string) error
}

// Notifier delivers a notification to a profile. Delivery problems past the
// inbox write are recovered by the notifier itself and never returned.
type Notifier interface {
	Notify(ctx context.Context, recipientID, text, originID string, kind NotificationKind) error
}

type NotificationUsecase interface {
	List(ctx context.Context, recipientID string) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) (int, error)
	// Delete removes one of the recipient's notifications. Someone else's is Forbidden.
	Delete(ctx context.Context, recipientID, id string) error
}

// MarkReadInput lists the notifications to mark read; empty means all.
type MarkReadInput struct {
	IDs []string `json:"ids" validate:"omitempty,max=100,unique,dive,required"`
}
