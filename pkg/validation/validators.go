package validation

import (
	"unicode"

	"talent-marketplace-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("profile_kind", ProfileKind)
	_ = v.RegisterValidation("service_status", ServiceStatus)
	_ = v.RegisterValidation("candidate_status", CandidateStatus)
	_ = v.RegisterValidation("review_type", ReviewType)
	_ = v.RegisterValidation("review_score", ReviewScore)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

func ProfileKind(fl validator.FieldLevel) bool {
	return domain.ProfileKind(fl.Field().String()).IsValid()
}

func ServiceStatus(fl validator.FieldLevel) bool {
	return domain.ServiceStatus(fl.Field().String()).IsValid()
}

func CandidateStatus(fl validator.FieldLevel) bool {
	return domain.CandidateStatus(fl.Field().String()).IsValid()
}

func ReviewType(fl validator.FieldLevel) bool {
	return domain.ReviewType(fl.Field().String()).IsValid()
}

// ReviewScore accepts integer scores in [MinReviewScore, MaxReviewScore].
func ReviewScore(fl validator.FieldLevel) bool {
	score := fl.Field().Int()
	return score >= domain.MinReviewScore && score <= domain.MaxReviewScore
}
