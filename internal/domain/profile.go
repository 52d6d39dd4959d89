package domain

import (
	"context"
	"time"
)

// ProfileKind tells which side of the marketplace a profile acts on.
type ProfileKind string

const (
	ProfileKindTalent   ProfileKind = "TALENT"
	ProfileKindBusiness ProfileKind = "BUSINESS"
	ProfileKindDual     ProfileKind = "DUAL"
)

func (k ProfileKind) IsValid() bool {
	switch k {
	case ProfileKindTalent, ProfileKindBusiness, ProfileKindDual:
		return true
	}
	return false
}

// ProfileView selects which optional fields of a Profile are populated.
type ProfileView string

const (
	ProfileViewLite  ProfileView = "lite"  // identity and reputation only
	ProfileViewBasic ProfileView = "basic" // + skills
	ProfileViewFull  ProfileView = "full"  // + skills and received OWNER reviews
)

// Profile is a talent or business account. One flat record serves every view;
// Skills and Reviews stay nil unless the requested view includes them.
type Profile struct {
	ID            string      `json:"id"`
	Name          *string     `json:"name,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Kind          ProfileKind `json:"kind"`
	AddressID     *int64      `json:"address_id,omitempty"`
	Salary        *float64    `json:"salary,omitempty"`
	AverageReview *float64    `json:"average_review"` // nil until the first review
	LikeCount     int         `json:"like_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Skills  []string `json:"skills,omitempty"`
	Reviews []Review `json:"reviews,omitempty"`
}

// ProfileFilter narrows a profile search. Nil fields do not filter.
type ProfileFilter struct {
	AddressID *int64
	SkillID   *string
	Kind      *ProfileKind
	ExcludeID string // never return this profile (usually the searcher)
}

// ProfileInput is the editable part of a profile. A nil pointer clears the field.
type ProfileInput struct {
	Name      *string     `json:"name" validate:"omitempty,max=120,no_emoji"`
	Email     *string     `json:"email" validate:"omitempty,email,max=254"`
	Kind      ProfileKind `json:"kind" validate:"required,profile_kind"`
	AddressID *int64      `json:"address_id"`
	Salary    *float64    `json:"salary" validate:"omitempty,min=0"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetSkills(ctx context.Context, profileID string) ([]string, error)
	GetAddress(ctx context.Context, profileID string) (*int64, error)
	GetEmail(ctx context.Context, profileID string) (string, error)
	Search(ctx context.Context, filter ProfileFilter) ([]Profile, error)
	UpdateReputation(ctx context.Context, id string, value *float64) error
	Update(ctx context.Context, id string, input ProfileInput) error
	// AddSkill is a no-op when the profile already holds the skill.
	AddSkill(ctx context.Context, profileID, skillID string) error
	// RemoveSkill returns ErrNotFound when the profile does not hold the skill.
	RemoveSkill(ctx context.Context, profileID, skillID string) error
}

type ProfileUsecase interface {
	// EnsureProfile returns the profile, creating an empty TALENT profile on first access.
	EnsureProfile(ctx context.Context, id string) (*Profile, error)
	GetProfile(ctx context.Context, id string, view ProfileView) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (*Profile, error)
	AddSkill(ctx context.Context, id, skillID string) ([]string, error)
	RemoveSkill(ctx context.Context, id, skillID string) ([]string, error)
}

// KeyProfileID is the gin context key holding the caller's profile id.
const KeyProfileID = "ProfileID"
