package usecase

import (
	"context"
	"errors"
	"strings"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	profiles domain.ProfileRepository
	reviews  domain.ReviewRepository
	validate *validator.Validate
}

func NewProfileUsecase(profiles domain.ProfileRepository, reviews domain.ReviewRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{profiles: profiles, reviews: reviews, validate: validate}
}

func (uc *profileUsecase) EnsureProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := uc.profiles.GetByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if err := uc.profiles.Create(ctx, &domain.Profile{ID: id, Kind: domain.ProfileKindTalent}); err != nil {
		return nil, apperror.Internal(err)
	}
	// Re-read: a concurrent first access may have created the row first.
	profile, err = uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Profile not found")
	}
	return profile, nil
}

// GetProfile fills Skills for the basic view and Skills plus received OWNER
// reviews for the full view.
func (uc *profileUsecase) GetProfile(ctx context.Context, id string, view domain.ProfileView) (*domain.Profile, error) {
	switch view {
	case "":
		view = domain.ProfileViewLite
	case domain.ProfileViewLite, domain.ProfileViewBasic, domain.ProfileViewFull:
	default:
		return nil, apperror.BadRequest("View must be lite, basic or full")
	}

	profile, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Profile not found")
	}
	if view == domain.ProfileViewLite {
		return profile, nil
	}

	skills, err := uc.profiles.GetSkills(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	profile.Skills = skills
	if view == domain.ProfileViewBasic {
		return profile, nil
	}

	reviews, err := uc.reviews.ListByDestinationAndType(ctx, id, domain.ReviewTypeOwner)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	profile.Reviews = reviews
	return profile, nil
}

// UpdateProfile replaces the editable fields and returns the basic view.
func (uc *profileUsecase) UpdateProfile(ctx context.Context, id string, input domain.ProfileInput) (*domain.Profile, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
	}

	if err := uc.profiles.Update(ctx, id, input); err != nil {
		return nil, fromRepo(err, "Profile not found")
	}
	return uc.GetProfile(ctx, id, domain.ProfileViewBasic)
}

func (uc *profileUsecase) AddSkill(ctx context.Context, id, skillID string) ([]string, error) {
	skillID = strings.TrimSpace(skillID)
	if skillID == "" {
		return nil, apperror.BadRequest("Skill is required")
	}
	if err := uc.profiles.AddSkill(ctx, id, skillID); err != nil {
		return nil, apperror.Internal(err)
	}
	return uc.skills(ctx, id)
}

func (uc *profileUsecase) RemoveSkill(ctx context.Context, id, skillID string) ([]string, error) {
	if err := uc.profiles.RemoveSkill(ctx, id, skillID); err != nil {
		return nil, fromRepo(err, "Skill not found on profile")
	}
	return uc.skills(ctx, id)
}

func (uc *profileUsecase) skills(ctx context.Context, id string) ([]string, error) {
	skills, err := uc.profiles.GetSkills(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return skills, nil
}
