package postgres

import (
	"context"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepo struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) domain.ReviewRepository {
	return &reviewRepo{db: db}
}

const reviewSelect = `
	SELECT r.id, r.origin_id, r.destination_id, r.service_id,
		r.skill, r.communication, r.deadline, r.availability, r.quality, r.cooperation,
		r.self_valuation, r.company_valuation, r.type, r.created_at,
		s.title, p.name
	FROM reviews r
	LEFT JOIN services s ON s.id = r.service_id
	LEFT JOIN profiles p ON p.id = r.origin_id`

func scanReview(row pgx.Row, rv *domain.Review) error {
	return row.Scan(
		&rv.ID, &rv.OriginID, &rv.DestinationID, &rv.ServiceID,
		&rv.Scores.Skill, &rv.Scores.Communication, &rv.Scores.Deadline,
		&rv.Scores.Availability, &rv.Scores.Quality, &rv.Scores.Cooperation,
		&rv.SelfValuation, &rv.CompanyValuation, &rv.Type, &rv.CreatedAt,
		&rv.ServiceTitle, &rv.OriginName,
	)
}

// Insert stores the review unless one already exists for the same
// (origin, service, destination). It reports whether a row was written.
func (r *reviewRepo) Insert(ctx context.Context, rv *domain.Review) (bool, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedAt = time.Now()

	query := `
		INSERT INTO reviews (id, origin_id, destination_id, service_id,
			skill, communication, deadline, availability, quality, cooperation,
			self_valuation, company_valuation, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (origin_id, service_id, destination_id) DO NOTHING`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		rv.ID, rv.OriginID, rv.DestinationID, rv.ServiceID,
		rv.Scores.Skill, rv.Scores.Communication, rv.Scores.Deadline,
		rv.Scores.Availability, rv.Scores.Quality, rv.Scores.Cooperation,
		rv.SelfValuation, rv.CompanyValuation, rv.Type, rv.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *reviewRepo) ListByDestination(ctx context.Context, destinationID string) ([]domain.Review, error) {
	return r.list(ctx, reviewSelect+` WHERE r.destination_id = $1 ORDER BY r.created_at, r.id`, destinationID)
}

func (r *reviewRepo) ListByDestinationAndType(ctx context.Context, destinationID string, reviewType domain.ReviewType) ([]domain.Review, error) {
	return r.list(ctx, reviewSelect+`
		WHERE r.destination_id = $1 AND r.type = $2
		ORDER BY r.created_at DESC, r.id`, destinationID, reviewType)
}

func (r *reviewRepo) ListByDestinationServiceAndType(ctx context.Context, destinationID, serviceID string, reviewType domain.ReviewType) ([]domain.Review, error) {
	return r.list(ctx, reviewSelect+`
		WHERE r.destination_id = $1 AND r.service_id = $2 AND r.type = $3
		ORDER BY r.created_at DESC, r.id`, destinationID, serviceID, reviewType)
}

func (r *reviewRepo) ListByService(ctx context.Context, serviceID string) ([]domain.Review, error) {
	return r.list(ctx, reviewSelect+` WHERE r.service_id = $1 ORDER BY r.created_at, r.id`, serviceID)
}

func (r *reviewRepo) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
