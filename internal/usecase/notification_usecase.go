package usecase

import (
	"context"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type notificationUsecase struct {
	repo     domain.NotificationRepository
	validate *validator.Validate
}

func NewNotificationUsecase(repo domain.NotificationRepository, validate *validator.Validate) domain.NotificationUsecase {
	return &notificationUsecase{repo: repo, validate: validate}
}

func (uc *notificationUsecase) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	notifications, err := uc.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notifications, nil
}

func (uc *notificationUsecase) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count, err := uc.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return count, nil
}

// MarkRead only touches the recipient's own rows; ids addressed to someone
// else are silently skipped and not counted.
func (uc *notificationUsecase) MarkRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	if err := uc.validate.Struct(domain.MarkReadInput{IDs: ids}); err != nil {
		return 0, invalidInput(err)
	}
	updated, err := uc.repo.MarkRead(ctx, recipientID, ids)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return updated, nil
}

func (uc *notificationUsecase) Delete(ctx context.Context, recipientID, id string) error {
	notification, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Notification not found")
	}
	if notification.RecipientID != recipientID {
		return apperror.Forbidden("Notification belongs to another profile")
	}
	return fromRepo(uc.repo.Delete(ctx, id), "Notification not found")
}
