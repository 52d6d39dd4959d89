package postgres

import (
	"context"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mailRepo struct {
	db *pgxpool.Pool
}

func NewMailRepository(db *pgxpool.Pool) domain.MailRepository {
	return &mailRepo{db: db}
}

func (r *mailRepo) Create(ctx context.Context, m *domain.Mail) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.Status = domain.MailStatusPending
	m.Attempts = 0

	query := `
		INSERT INTO mails (id, subject, recipient, body, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		m.ID, m.Subject, m.To, m.Body, m.Status, m.Attempts, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// ListPending returns PENDING mails with fewer than maxAttempts attempts, oldest first.
func (r *mailRepo) ListPending(ctx context.Context, maxAttempts int) ([]domain.Mail, error) {
	query := `
		SELECT id, subject, recipient, body, status, attempts, created_at, updated_at
		FROM mails
		WHERE status = $1 AND attempts < $2
		ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).Query(ctx, query, domain.MailStatusPending, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mails []domain.Mail
	for rows.Next() {
		var m domain.Mail
		if err := rows.Scan(&m.ID, &m.Subject, &m.To, &m.Body, &m.Status, &m.Attempts, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mails = append(mails, m)
	}
	return mails, rows.Err()
}

func (r *mailRepo) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE mails SET status = $2, attempts = attempts + 1, updated_at = $3 WHERE id = $1`
	_, err := conn(ctx, r.db).Exec(ctx, query, id, domain.MailStatusSent, time.Now())
	return err
}

func (r *mailRepo) IncrementAttempts(ctx context.Context, id string) error {
	query := `UPDATE mails SET attempts = attempts + 1, updated_at = $2 WHERE id = $1`
	_, err := conn(ctx, r.db).Exec(ctx, query, id, time.Now())
	return err
}
