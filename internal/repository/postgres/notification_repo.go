package postgres

import (
	"context"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `id, recipient_id, text, kind, origin_id, created_at, read_at`

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications (id, recipient_id, text, kind, origin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := conn(ctx, r.db).Exec(ctx, query, n.ID, n.RecipientID, n.Text, n.Kind, n.OriginID, n.CreatedAt)
	return err
}

// ListByRecipient returns the newest notifications first.
func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id
		LIMIT 100`

	rows, err := conn(ctx, r.db).Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Text, &n.Kind, &n.OriginID, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read_at IS NULL`
	var count int
	err := conn(ctx, r.db).QueryRow(ctx, query, recipientID).Scan(&count)
	return count, err
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n domain.Notification
	err := conn(ctx, r.db).QueryRow(ctx, query, id).
		Scan(&n.ID, &n.RecipientID, &n.Text, &n.Kind, &n.OriginID, &n.CreatedAt, &n.ReadAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// markReadQuery never touches another recipient's rows; $3 NULL means every unread row.
const markReadQuery = `
	UPDATE notifications SET read_at = $2
	WHERE recipient_id = $1 AND read_at IS NULL AND ($3::text[] IS NULL OR id = ANY($3))`

func markReadArgs(recipientID string, ids []string, now time.Time) []any {
	var idArg any
	if len(ids) > 0 {
		idArg = pq.Array(ids)
	}
	return []any{recipientID, now, idArg}
}

func (r *notificationRepo) MarkRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	result, err := conn(ctx, r.db).Exec(ctx, markReadQuery, markReadArgs(recipientID, ids, time.Now())...)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *notificationRepo) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
