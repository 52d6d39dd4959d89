package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type serviceRepo struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) domain.ServiceRepository {
	return &serviceRepo{db: db}
}

// Skills are aggregated in insertion order.
const serviceSelect = `
	SELECT s.id, s.owner_id, s.title, s.description, s.candidate_kind, s.address_id,
		s.status, s.vacancies, COALESCE(s.payment_type, ''), s.payment_min, s.payment_max,
		COALESCE(s.currency, ''), s.average_review, s.created_at, s.updated_at,
		COALESCE((SELECT array_agg(ss.skill_id ORDER BY ss.position)
			FROM service_skills ss WHERE ss.service_id = s.id), '{}')
	FROM services s`

func scanService(row pgx.Row, s *domain.Service) error {
	var skills []string
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.CandidateKind, &s.AddressID,
		&s.Status, &s.Vacancies, &s.Payment.Type, &s.Payment.AmountMin, &s.Payment.AmountMax,
		&s.Payment.Currency, &s.AverageReview, &s.CreatedAt, &s.UpdatedAt,
		pq.Array(&skills),
	)
	s.Skills = skills
	return err
}

func (r *serviceRepo) Create(ctx context.Context, s *domain.Service) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	db := conn(ctx, r.db)
	query := `
		INSERT INTO services (id, owner_id, title, description, candidate_kind, address_id, status,
			vacancies, payment_type, payment_min, payment_max, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, NULLIF($12, ''), $13, $14)`

	_, err := db.Exec(ctx, query,
		s.ID, s.OwnerID, s.Title, s.Description, s.CandidateKind, s.AddressID, s.Status,
		s.Vacancies, s.Payment.Type, s.Payment.AmountMin, s.Payment.AmountMax, s.Payment.Currency,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}

	return insertSkills(ctx, db, s.ID, s.Skills)
}

// insertSkills stores skills in slice order.
func insertSkills(ctx context.Context, db querier, serviceID string, skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	query := `
		INSERT INTO service_skills (service_id, skill_id, position)
		SELECT $1, skill.id, skill.position
		FROM unnest($2::text[]) WITH ORDINALITY AS skill(id, position)`
	if _, err := db.Exec(ctx, query, serviceID, pq.Array(skills)); err != nil {
		return fmt.Errorf("failed to insert service skills: %w", err)
	}
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	if err := scanService(conn(ctx, r.db).QueryRow(ctx, serviceSelect+` WHERE s.id = $1`, id), &s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// buildServiceSearch turns a filter into a query whose placeholders follow args.
func buildServiceSearch(f domain.ServiceFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.OwnerID != "" {
		add("s.owner_id = $%d", f.OwnerID)
	}
	if f.ExcludeOwnerID != "" {
		add("(s.owner_id IS NULL OR s.owner_id <> $%d)", f.ExcludeOwnerID)
	}
	if f.AddressID != nil {
		add("s.address_id = $%d", *f.AddressID)
	}
	if f.Status != nil {
		add("s.status = $%d", *f.Status)
	}
	if len(f.Statuses) > 0 {
		add("s.status = ANY($%d)", pq.Array(toStrings(f.Statuses)))
	}
	if len(f.Kinds) > 0 {
		add("s.candidate_kind = ANY($%d)", pq.Array(toStrings(f.Kinds)))
	}
	if f.SkillID != nil {
		add("EXISTS (SELECT 1 FROM service_skills ss WHERE ss.service_id = s.id AND ss.skill_id = $%d)", *f.SkillID)
	}
	if f.ParticipantID != "" {
		cond := "EXISTS (SELECT 1 FROM candidates c WHERE c.service_id = s.id AND c.profile_id = $%d"
		if len(f.ParticipantStatuses) > 0 {
			args = append(args, f.ParticipantID, pq.Array(toStrings(f.ParticipantStatuses)))
			where = append(where, fmt.Sprintf(cond+" AND c.status = ANY($%d))", len(args)-1, len(args)))
		} else {
			add(cond+")", f.ParticipantID)
		}
	}

	query := serviceSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY s.created_at, s.id", args
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func (r *serviceRepo) Search(ctx context.Context, f domain.ServiceFilter) ([]domain.Service, error) {
	query, args := buildServiceSearch(f)
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := scanService(rows, &s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *serviceRepo) UpdateStatus(ctx context.Context, id string, status domain.ServiceStatus) error {
	query := `UPDATE services SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *serviceRepo) UpdateReputation(ctx context.Context, id string, value *float64) error {
	query := `UPDATE services SET average_review = $2, updated_at = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).Exec(ctx, query, id, value, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListReputationsByOwner returns the non-null service averages of an owner.
func (r *serviceRepo) ListReputationsByOwner(ctx context.Context, ownerID string) ([]float64, error) {
	query := `
		SELECT average_review FROM services
		WHERE owner_id = $1 AND average_review IS NOT NULL
		ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[float64])
}

// Update must run inside a transaction: it rewrites the row and then the skill list.
func (r *serviceRepo) Update(ctx context.Context, s *domain.Service) error {
	s.UpdatedAt = time.Now()

	db := conn(ctx, r.db)
	query := `
		UPDATE services
		SET title = $2, description = $3, candidate_kind = $4, address_id = $5, vacancies = $6,
			payment_type = NULLIF($7, ''), payment_min = $8, payment_max = $9, currency = NULLIF($10, ''),
			updated_at = $11
		WHERE id = $1`
	result, err := db.Exec(ctx, query,
		s.ID, s.Title, s.Description, s.CandidateKind, s.AddressID, s.Vacancies,
		s.Payment.Type, s.Payment.AmountMin, s.Payment.AmountMax, s.Payment.Currency, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := db.Exec(ctx, `DELETE FROM service_skills WHERE service_id = $1`, s.ID); err != nil {
		return fmt.Errorf("failed to clear service skills: %w", err)
	}
	return insertSkills(ctx, db, s.ID, s.Skills)
}

func (r *serviceRepo) AddSkill(ctx context.Context, serviceID, skillID string) error {
	query := `
		INSERT INTO service_skills (service_id, skill_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM service_skills WHERE service_id = $1
		ON CONFLICT (service_id, skill_id) DO NOTHING`
	_, err := conn(ctx, r.db).Exec(ctx, query, serviceID, skillID)
	return err
}

func (r *serviceRepo) RemoveSkill(ctx context.Context, serviceID, skillID string) error {
	query := `DELETE FROM service_skills WHERE service_id = $1 AND skill_id = $2`
	result, err := conn(ctx, r.db).Exec(ctx, query, serviceID, skillID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
