package postgres

import (
	"context"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateSelect = `
	SELECT c.id, c.service_id, c.profile_id, c.status, c.created_at, c.updated_at, p.name
	FROM candidates c
	LEFT JOIN profiles p ON p.id = c.profile_id`

func scanCandidate(row pgx.Row, c *domain.Candidate) error {
	return row.Scan(&c.ID, &c.ServiceID, &c.ProfileID, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.ProfileName)
}

// Create returns domain.ErrDuplicate when the profile already applied to the service.
func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO candidates (id, service_id, profile_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, r.db).Exec(ctx, query, c.ID, c.ServiceID, c.ProfileID, c.Status, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	var c domain.Candidate
	if err := scanCandidate(conn(ctx, r.db).QueryRow(ctx, candidateSelect+` WHERE c.id = $1`, id), &c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByService returns candidates in application order.
func (r *candidateRepo) ListByService(ctx context.Context, serviceID string) ([]domain.Candidate, error) {
	return r.list(ctx, candidateSelect+` WHERE c.service_id = $1 ORDER BY c.created_at, c.id`, serviceID)
}

func (r *candidateRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Candidate, error) {
	return r.list(ctx, candidateSelect+` WHERE c.profile_id = $1 ORDER BY c.created_at, c.id`, profileID)
}

func (r *candidateRepo) list(ctx context.Context, query string, args ...any) ([]domain.Candidate, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := scanCandidate(rows, &c); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *candidateRepo) HasApplied(ctx context.Context, profileID, serviceID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM candidates WHERE profile_id = $1 AND service_id = $2)`
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, query, profileID, serviceID).Scan(&exists)
	return exists, err
}

func (r *candidateRepo) UpdateStatus(ctx context.Context, id string, status domain.CandidateStatus) error {
	query := `UPDATE candidates SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasAccepted reports whether the profile holds an ACCEPTED candidacy on any service.
func (r *candidateRepo) HasAccepted(ctx context.Context, profileID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM candidates WHERE profile_id = $1 AND status = $2)`
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, query, profileID, domain.CandidateStatusAccepted).Scan(&exists)
	return exists, err
}

// markEvaluatedQuery only touches a row that is still ACCEPTED ($5): a review on a
// service where the talent is PENDING or REJECTED must leave that row alone.
const markEvaluatedQuery = `
	UPDATE candidates SET status = $3, updated_at = $4
	WHERE profile_id = $1 AND service_id = $2 AND status = $5`

func markEvaluatedArgs(profileID, serviceID string, now time.Time) []any {
	return []any{profileID, serviceID, domain.CandidateStatusEvaluated, now, domain.CandidateStatusAccepted}
}

func (r *candidateRepo) MarkEvaluated(ctx context.Context, profileID, serviceID string) error {
	_, err := conn(ctx, r.db).Exec(ctx, markEvaluatedQuery, markEvaluatedArgs(profileID, serviceID, time.Now())...)
	return err
}
