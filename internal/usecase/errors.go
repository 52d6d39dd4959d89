package usecase

import (
	"errors"
	"strings"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/validation"
)

// fromRepo translates a repository error into an AppError. AppErrors raised
// inside a transaction pass through untouched.
func fromRepo(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	return apperror.Internal(err)
}

func invalidInput(err error) error {
	return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
}
