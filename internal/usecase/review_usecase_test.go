package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	reviews    *MockReviewRepo
	services   *MockServiceRepo
	candidates *MockCandidateRepo
	profiles   *MockProfileRepo
	uc         domain.ReviewUsecase
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews:    new(MockReviewRepo),
		services:   new(MockServiceRepo),
		candidates: new(MockCandidateRepo),
		profiles:   new(MockProfileRepo),
	}
	f.uc = usecase.NewReviewUsecase(passTx{}, f.reviews, f.services, f.candidates, f.profiles, validation.New())
	return f
}

var sampleScores = domain.ReviewScores{Skill: 5, Communication: 4, Deadline: 3, Availability: 5, Quality: 4, Cooperation: 3}

func floatIs(want float64) any {
	return mock.MatchedBy(func(v *float64) bool { return v != nil && *v == want })
}

func TestSubmitReview_TalentBranch(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	input := domain.ReviewInput{DestinationID: "talent-1", ServiceID: "svc-1", Scores: sampleScores, Type: domain.ReviewTypeOwner}
	stored := domain.Review{OriginID: "biz-1", DestinationID: "talent-1", ServiceID: "svc-1", Scores: sampleScores, Type: domain.ReviewTypeOwner}

	f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
	f.reviews.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(true, nil).Once()
	f.reviews.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(false, nil).Once()
	f.candidates.On("HasAccepted", mock.Anything, "talent-1").Return(true, nil)
	f.reviews.On("ListByDestination", mock.Anything, "talent-1").Return([]domain.Review{stored}, nil)
	f.profiles.On("UpdateReputation", mock.Anything, "talent-1", floatIs(4.0)).Return(nil)
	f.candidates.On("MarkEvaluated", mock.Anything, "talent-1", "svc-1").Return(nil)

	review, err := f.uc.SubmitReview(ctx, "biz-1", input)
	require.NoError(t, err)
	assert.Equal(t, "biz-1", review.OriginID)
	f.profiles.AssertNumberOfCalls(t, "UpdateReputation", 1)
	f.candidates.AssertCalled(t, "MarkEvaluated", mock.Anything, "talent-1", "svc-1")

	t.Run("second review for the same triple is forbidden and changes nothing", func(t *testing.T) {
		_, err := f.uc.SubmitReview(ctx, "biz-1", input)
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.profiles.AssertNumberOfCalls(t, "UpdateReputation", 1)
		f.candidates.AssertNumberOfCalls(t, "HasAccepted", 1)
	})
}

func TestSubmitReview_BusinessBranch(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	input := domain.ReviewInput{DestinationID: "biz-1", ServiceID: "svc-1", Scores: sampleScores, Type: domain.ReviewTypeEmployee}

	high := domain.ReviewScores{Skill: 5, Communication: 5, Deadline: 5, Availability: 5, Quality: 5, Cooperation: 5}
	low := domain.ReviewScores{Skill: 1, Communication: 1, Deadline: 1, Availability: 1, Quality: 1, Cooperation: 1}
	serviceReviews := []domain.Review{
		{Scores: high, Type: domain.ReviewTypeEmployee},
		{Scores: sampleScores, Type: domain.ReviewTypeEmployee},
		{Scores: low, Type: domain.ReviewTypeOwner},
	}

	f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
	f.reviews.On("Insert", mock.Anything, mock.Anything).Return(true, nil)
	f.candidates.On("HasAccepted", mock.Anything, "biz-1").Return(false, nil)
	f.reviews.On("ListByService", mock.Anything, "svc-1").Return(serviceReviews, nil)
	f.services.On("UpdateReputation", mock.Anything, "svc-1", floatIs(4.5)).Return(nil)
	f.services.On("ListReputationsByOwner", mock.Anything, "biz-1").Return([]float64{4.5, 2.5}, nil)
	f.profiles.On("UpdateReputation", mock.Anything, "biz-1", floatIs(3.5)).Return(nil)

	_, err := f.uc.SubmitReview(ctx, "talent-1", input)
	require.NoError(t, err)
	f.services.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.candidates.AssertNotCalled(t, "MarkEvaluated", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("score out of range", func(t *testing.T) {
		f := newReviewFixture()
		bad := sampleScores
		bad.Quality = 6
		_, err := f.uc.SubmitReview(ctx, "biz-1", domain.ReviewInput{
			DestinationID: "talent-1", ServiceID: "svc-1", Scores: bad, Type: domain.ReviewTypeOwner,
		})
		require.True(t, apperror.HasCode(err, http.StatusBadRequest))
		assert.Contains(t, err.Error(), "Quality score")
		f.reviews.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("self review", func(t *testing.T) {
		f := newReviewFixture()
		_, err := f.uc.SubmitReview(ctx, "talent-1", domain.ReviewInput{
			DestinationID: "talent-1", ServiceID: "svc-1", Scores: sampleScores, Type: domain.ReviewTypeOwner,
		})
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newReviewFixture()
		f.services.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
		_, err := f.uc.SubmitReview(ctx, "biz-1", domain.ReviewInput{
			DestinationID: "talent-1", ServiceID: "missing", Scores: sampleScores, Type: domain.ReviewTypeOwner,
		})
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	})
}

func TestListReviews(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.reviews.On("ListByDestinationAndType", mock.Anything, "talent-1", domain.ReviewTypeOwner).
		Return([]domain.Review{{ID: "r2"}, {ID: "r1"}}, nil)

	reviews, err := f.uc.ListReviews(ctx, "talent-1", domain.ReviewTypeOwner)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = f.uc.ListReviews(ctx, "talent-1", domain.ReviewType("PEER"))
	assert.True(t, apperror.HasCode(err, http.StatusBadRequest))
}
