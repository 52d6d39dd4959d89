package validation

import (
	"errors"
	"fmt"
	"strings"

	"talent-marketplace-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Title":            "Title",
	"Description":      "Description",
	"CandidateKind":    "Candidate type",
	"SkillIDs":         "Skills",
	"Vacancies":        "Vacancies",
	"DestinationID":    "Reviewed profile",
	"ServiceID":        "Service",
	"Type":             "Review type",
	"Skill":            "Skill score",
	"Communication":    "Communication score",
	"Deadline":         "Deadline score",
	"Availability":     "Availability score",
	"Quality":          "Quality score",
	"Cooperation":      "Cooperation score",
	"SelfValuation":    "Self valuation",
	"CompanyValuation": "Company valuation",
	"Name":             "Name",
	"Email":            "Email",
	"Kind":             "Profile type",
	"AddressID":        "Address",
	"Salary":           "Salary",
	"IDs":              "Notifications",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "unique":
		return fmt.Sprintf("%s: must not contain duplicates", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "profile_kind":
		return fmt.Sprintf("%s: must be one of TALENT, BUSINESS, DUAL", label)
	case "service_status":
		return fmt.Sprintf("%s: is not a known service status", label)
	case "candidate_status":
		return fmt.Sprintf("%s: must be one of PENDING, ACCEPTED, REJECTED, EVALUATED", label)
	case "review_type":
		return fmt.Sprintf("%s: must be OWNER or EMPLOYEE", label)
	case "review_score":
		return fmt.Sprintf("%s: must be between %d and %d", label, domain.MinReviewScore, domain.MaxReviewScore)
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", label)
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
