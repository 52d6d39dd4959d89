package usecase

import (
	"context"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/rating"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type reviewUsecase struct {
	tx         domain.TxManager
	reviews    domain.ReviewRepository
	services   domain.ServiceRepository
	candidates domain.CandidateRepository
	profiles   domain.ProfileRepository
	validate   *validator.Validate
}

func NewReviewUsecase(
	tx domain.TxManager,
	reviews domain.ReviewRepository,
	services domain.ServiceRepository,
	candidates domain.CandidateRepository,
	profiles domain.ProfileRepository,
	validate *validator.Validate,
) domain.ReviewUsecase {
	return &reviewUsecase{
		tx:         tx,
		reviews:    reviews,
		services:   services,
		candidates: candidates,
		profiles:   profiles,
		validate:   validate,
	}
}

// SubmitReview stores the review and recomputes the affected reputations in
// the same transaction.
func (uc *reviewUsecase) SubmitReview(ctx context.Context, originID string, input domain.ReviewInput) (*domain.Review, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	if input.DestinationID == originID {
		return nil, apperror.Forbidden("You cannot review yourself")
	}
	if _, err := uc.services.GetByID(ctx, input.ServiceID); err != nil {
		return nil, fromRepo(err, "Service not found")
	}

	review := &domain.Review{
		OriginID:         originID,
		DestinationID:    input.DestinationID,
		ServiceID:        input.ServiceID,
		Scores:           input.Scores,
		SelfValuation:    input.SelfValuation,
		CompanyValuation: input.CompanyValuation,
		Type:             input.Type,
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		inserted, err := uc.reviews.Insert(ctx, review)
		if err != nil {
			return err
		}
		if !inserted {
			return apperror.Forbidden("You have already reviewed this profile for this service")
		}
		return uc.recompute(ctx, review.DestinationID, review.ServiceID)
	})
	if err != nil {
		return nil, fromRepo(err, "Profile not found")
	}
	return review, nil
}

// recompute picks the talent branch when the destination holds an ACCEPTED
// engagement and the business branch otherwise.
func (uc *reviewUsecase) recompute(ctx context.Context, destinationID, serviceID string) error {
	accepted, err := uc.candidates.HasAccepted(ctx, destinationID)
	if err != nil {
		return err
	}

	if accepted {
		received, err := uc.reviews.ListByDestination(ctx, destinationID)
		if err != nil {
			return err
		}
		if err := uc.profiles.UpdateReputation(ctx, destinationID, rating.TalentReputation(received)); err != nil {
			return err
		}
		return uc.candidates.MarkEvaluated(ctx, destinationID, serviceID)
	}

	serviceReviews, err := uc.reviews.ListByService(ctx, serviceID)
	if err != nil {
		return err
	}
	if err := uc.services.UpdateReputation(ctx, serviceID, rating.ServiceReputation(serviceReviews)); err != nil {
		return err
	}
	averages, err := uc.services.ListReputationsByOwner(ctx, destinationID)
	if err != nil {
		return err
	}
	return uc.profiles.UpdateReputation(ctx, destinationID, rating.BusinessReputation(averages))
}

func (uc *reviewUsecase) ListReviews(ctx context.Context, profileID string, reviewType domain.ReviewType) ([]domain.Review, error) {
	if !reviewType.IsValid() {
		return nil, apperror.BadRequest("Review type must be OWNER or EMPLOYEE")
	}
	reviews, err := uc.reviews.ListByDestinationAndType(ctx, profileID, reviewType)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

func (uc *reviewUsecase) ListServiceReviews(ctx context.Context, profileID, serviceID string, reviewType domain.ReviewType) ([]domain.Review, error) {
	if !reviewType.IsValid() {
		return nil, apperror.BadRequest("Review type must be OWNER or EMPLOYEE")
	}
	reviews, err := uc.reviews.ListByDestinationServiceAndType(ctx, profileID, serviceID, reviewType)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}
