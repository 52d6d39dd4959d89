package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-marketplace-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `p.id, p.name, p.email, p.kind, p.address_id, p.salary, p.average_review, p.like_count, p.created_at, p.updated_at`

func scanProfile(row pgx.Row, p *domain.Profile) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Kind, &p.AddressID, &p.Salary,
		&p.AverageReview, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
	)
}

// Create inserts a profile. Creating an existing id is a no-op so that
// concurrent first accesses do not fail.
func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, name, email, kind, address_id, salary, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Kind == "" {
		p.Kind = domain.ProfileKindTalent
	}

	_, err := conn(ctx, r.db).Exec(ctx, query,
		p.ID, p.Name, p.Email, p.Kind, p.AddressID, p.Salary, p.LikeCount, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.id = $1`

	var p domain.Profile
	if err := scanProfile(conn(ctx, r.db).QueryRow(ctx, query, id), &p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetSkills returns the skill ids of a profile in insertion order.
func (r *profileRepo) GetSkills(ctx context.Context, profileID string) ([]string, error) {
	query := `SELECT skill_id FROM profile_skills WHERE profile_id = $1 ORDER BY created_at, skill_id`

	rows, err := conn(ctx, r.db).Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *profileRepo) GetAddress(ctx context.Context, profileID string) (*int64, error) {
	query := `SELECT address_id FROM profiles WHERE id = $1`

	var addressID *int64
	if err := conn(ctx, r.db).QueryRow(ctx, query, profileID).Scan(&addressID); err != nil {
		return nil, notFound(err)
	}
	return addressID, nil
}

// GetEmail returns "" when the profile exists but has no email.
func (r *profileRepo) GetEmail(ctx context.Context, profileID string) (string, error) {
	query := `SELECT COALESCE(email, '') FROM profiles WHERE id = $1`

	var email string
	if err := conn(ctx, r.db).QueryRow(ctx, query, profileID).Scan(&email); err != nil {
		return "", notFound(err)
	}
	return email, nil
}

// buildProfileSearch turns a filter into a query whose placeholders follow args.
func buildProfileSearch(f domain.ProfileFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.ExcludeID != "" {
		add("p.id <> $%d", f.ExcludeID)
	}
	if f.AddressID != nil {
		add("p.address_id = $%d", *f.AddressID)
	}
	if f.Kind != nil {
		add("p.kind = $%d", *f.Kind)
	}
	if f.SkillID != nil {
		add("EXISTS (SELECT 1 FROM profile_skills ps WHERE ps.profile_id = p.id AND ps.skill_id = $%d)", *f.SkillID)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles p`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY p.created_at, p.id", args
}

// Search returns profiles matching every non-nil filter field, oldest first.
func (r *profileRepo) Search(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error) {
	query, args := buildProfileSearch(f)
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) UpdateReputation(ctx context.Context, id string, value *float64) error {
	query := `UPDATE profiles SET average_review = $2, updated_at = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).Exec(ctx, query, id, value, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) Update(ctx context.Context, id string, in domain.ProfileInput) error {
	query := `
		UPDATE profiles
		SET name = $2, email = $3, kind = $4, address_id = $5, salary = $6, updated_at = $7
		WHERE id = $1`
	result, err := conn(ctx, r.db).Exec(ctx, query, id, in.Name, in.Email, in.Kind, in.AddressID, in.Salary, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) AddSkill(ctx context.Context, profileID, skillID string) error {
	query := `
		INSERT INTO profile_skills (profile_id, skill_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id, skill_id) DO NOTHING`
	_, err := conn(ctx, r.db).Exec(ctx, query, profileID, skillID, time.Now())
	return err
}

func (r *profileRepo) RemoveSkill(ctx context.Context, profileID, skillID string) error {
	query := `DELETE FROM profile_skills WHERE profile_id = $1 AND skill_id = $2`
	result, err := conn(ctx, r.db).Exec(ctx, query, profileID, skillID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
