package domain

import (
	"context"
	"time"
)

type MailStatus string

const (
	MailStatusPending MailStatus = "PENDING"
	MailStatusSent    MailStatus = "SENT"
)

// Mail is an outbox entry. Attempts counts delivery tries, successful or not.
type Mail struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject"`
	To        string     `json:"to"`
	Body      string     `json:"body"`
	Status    MailStatus `json:"status"`
	Attempts  int        `json:"attempts"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type MailRepository interface {
	Create(ctx context.Context, mail *Mail) error
	// ListPending returns PENDING mails with fewer than maxAttempts attempts, oldest first.
	ListPending(ctx context.Context, maxAttempts int) ([]Mail, error)
	MarkSent(ctx context.Context, id string) error
	IncrementAttempts(ctx context.Context, id string) error
}

// MailSender is the outbound mail transport.
type MailSender interface {
	TrySend(ctx context.Context, mail Mail) error
}
