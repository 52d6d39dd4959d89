package domain

import (
	"context"
	"time"
)

// ReviewType tells who wrote the review: OWNER reviews rate the hired talent,
// EMPLOYEE reviews rate the service and its business.
type ReviewType string

const (
	ReviewTypeOwner    ReviewType = "OWNER"
	ReviewTypeEmployee ReviewType = "EMPLOYEE"
)

func (t ReviewType) IsValid() bool {
	return t == ReviewTypeOwner || t == ReviewTypeEmployee
}

// Bounds of every review dimension, enforced by the review_score validation tag.
const (
	MinReviewScore = 1
	MaxReviewScore = 5
)

// ReviewScores are the six rated dimensions of a review.
type ReviewScores struct {
	Skill         int `json:"skill" validate:"review_score"`
	Communication int `json:"communication" validate:"review_score"`
	Deadline      int `json:"deadline" validate:"review_score"`
	Availability  int `json:"availability" validate:"review_score"`
	Quality       int `json:"quality" validate:"review_score"`
	Cooperation   int `json:"cooperation" validate:"review_score"`
}

// Review is immutable once stored. At most one exists per (origin, service, destination).
type Review struct {
	ID               string       `json:"id"`
	OriginID         string       `json:"origin_id"`
	DestinationID    string       `json:"destination_id"`
	ServiceID        string       `json:"service_id"`
	Scores           ReviewScores `json:"scores"`
	SelfValuation    *string      `json:"self_valuation,omitempty"`
	CompanyValuation *string      `json:"company_valuation,omitempty"`
	Type             ReviewType   `json:"type"`
	CreatedAt        time.Time    `json:"created_at"`

	// Joined data for list responses
	ServiceTitle *string `json:"service_title,omitempty"`
	OriginName   *string `json:"origin_name,omitempty"`
}

type ReviewInput struct {
	DestinationID    string       `json:"destination_id" validate:"required"`
	ServiceID        string       `json:"service_id" validate:"required"`
	Scores           ReviewScores `json:"scores"`
	SelfValuation    *string      `json:"self_valuation" validate:"omitempty,max=2000"`
	CompanyValuation *string      `json:"company_valuation" validate:"omitempty,max=2000"`
	Type             ReviewType   `json:"type" validate:"required,review_type"`
}

type ReviewRepository interface {
	// Insert stores the review and reports false when the triple was already reviewed.
	Insert(ctx context.Context, review *Review) (bool, error)
	ListByDestination(ctx context.Context, destinationID string) ([]Review, error)
	ListByDestinationAndType(ctx context.Context, destinationID string, reviewType ReviewType) ([]Review, error)
	ListByDestinationServiceAndType(ctx context.Context, destinationID, serviceID string, reviewType ReviewType) ([]Review, error)
	ListByService(ctx context.Context, serviceID string) ([]Review, error)
}

type ReviewUsecase interface {
	SubmitReview(ctx context.Context, originID string, input ReviewInput) (*Review, error)
	ListReviews(ctx context.Context, profileID string, reviewType ReviewType) ([]Review, error)
	ListServiceReviews(ctx context.Context, profileID, serviceID string, reviewType ReviewType) ([]Review, error)
}
