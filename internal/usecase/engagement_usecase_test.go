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
	"go.uber.org/zap"
)

type engagementFixture struct {
	services   *MockServiceRepo
	candidates *MockCandidateRepo
	profiles   *MockProfileRepo
	matching   *MockMatching
	notifier   *MockNotifier
	uc         domain.EngagementUsecase
}

func newEngagementFixture() *engagementFixture {
	f := &engagementFixture{
		services:   new(MockServiceRepo),
		candidates: new(MockCandidateRepo),
		profiles:   new(MockProfileRepo),
		matching:   new(MockMatching),
		notifier:   new(MockNotifier),
	}
	f.uc = usecase.NewEngagementUsecase(passTx{}, f.services, f.candidates, f.profiles, f.matching,
		f.notifier, validation.New(), zap.NewNop())
	return f
}

func openService() *domain.Service {
	return &domain.Service{
		ID:            "svc-1",
		OwnerID:       strPtr("biz-1"),
		Title:         "Backend developer",
		CandidateKind: domain.ProfileKindTalent,
		Status:        domain.ServiceStatusOpen,
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("second apply by the same profile is forbidden", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("HasApplied", mock.Anything, "talent-1", "svc-1").Return(false, nil).Once()
		f.candidates.On("HasApplied", mock.Anything, "talent-1", "svc-1").Return(true, nil).Once()
		f.candidates.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(nil).Once()
		f.notifier.On("Notify", mock.Anything, "biz-1", "New candidate for service: Backend developer", "svc-1", domain.NotificationKindService).Return(nil)
		f.notifier.On("Notify", mock.Anything, "talent-1", "Your status on service 'Backend developer' has been updated to: Application submitted.", "svc-1", domain.NotificationKindService).Return(nil)

		candidate, err := f.uc.Apply(ctx, "talent-1", "svc-1")
		require.NoError(t, err)
		assert.Equal(t, domain.CandidateStatusPending, candidate.Status)

		_, err = f.uc.Apply(ctx, "talent-1", "svc-1")
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.candidates.AssertNumberOfCalls(t, "Create", 1)
		f.notifier.AssertExpectations(t)
	})

	t.Run("lost race on the unique constraint is forbidden", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("HasApplied", mock.Anything, "talent-1", "svc-1").Return(false, nil)
		f.candidates.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)

		_, err := f.uc.Apply(ctx, "talent-1", "svc-1")
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner cannot apply to own service", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)

		_, err := f.uc.Apply(ctx, "biz-1", "svc-1")
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.candidates.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown service is not found", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Apply(ctx, "talent-1", "missing")
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	})
}

func TestCreateExternalService(t *testing.T) {
	ctx := context.Background()
	input := domain.ExternalServiceInput{Title: "Freelance audit", SkillIDs: []string{"go"}}

	t.Run("without business the creator is evaluated immediately", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("Create", mock.Anything, mock.AnythingOfType("*domain.Service")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Service).ID = "svc-ext" }).
			Return(nil)
		f.candidates.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(nil)

		service, err := f.uc.CreateExternalService(ctx, "talent-1", input)
		require.NoError(t, err)
		assert.Equal(t, domain.ServiceStatusExternalUnassigned, service.Status)
		assert.Nil(t, service.OwnerID)

		f.candidates.AssertNumberOfCalls(t, "Create", 1)
		created := f.candidates.Calls[0].Arguments.Get(1).(*domain.Candidate)
		assert.Equal(t, domain.CandidateStatusEvaluated, created.Status)
		assert.Equal(t, "svc-ext", created.ServiceID)
		assert.Equal(t, "talent-1", created.ProfileID)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with business the creator is accepted and the business notified", func(t *testing.T) {
		f := newEngagementFixture()
		withBusiness := input
		withBusiness.BusinessID = "biz-1"

		f.profiles.On("GetByID", mock.Anything, "biz-1").Return(&domain.Profile{ID: "biz-1", Kind: domain.ProfileKindBusiness}, nil)
		f.services.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Service).ID = "svc-ext" }).
			Return(nil)
		f.candidates.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.notifier.On("Notify", mock.Anything, "biz-1", "New external service pending validation: Freelance audit",
			"svc-ext", domain.NotificationKindExternalService).Return(nil)

		service, err := f.uc.CreateExternalService(ctx, "talent-1", withBusiness)
		require.NoError(t, err)
		assert.Equal(t, domain.ServiceStatusExternalPending, service.Status)
		assert.Equal(t, "biz-1", *service.OwnerID)

		created := f.candidates.Calls[0].Arguments.Get(1).(*domain.Candidate)
		assert.Equal(t, domain.CandidateStatusAccepted, created.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unknown business is not found", func(t *testing.T) {
		f := newEngagementFixture()
		withBusiness := input
		withBusiness.BusinessID = "ghost"
		f.profiles.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		_, err := f.uc.CreateExternalService(ctx, "talent-1", withBusiness)
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
		f.services.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateServiceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner update writes exactly once", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.services.On("UpdateStatus", mock.Anything, "svc-1", domain.ServiceStatusInProgress).Return(nil)

		err := f.uc.UpdateServiceStatus(ctx, "biz-1", "svc-1", domain.ServiceStatusInProgress)
		require.NoError(t, err)
		f.services.AssertNumberOfCalls(t, "UpdateStatus", 1)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)

		err := f.uc.UpdateServiceStatus(ctx, "talent-1", "svc-1", domain.ServiceStatusCompleted)
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.services.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing service is not found", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

		err := f.uc.UpdateServiceStatus(ctx, "biz-1", "missing", domain.ServiceStatusCompleted)
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newEngagementFixture()
		err := f.uc.UpdateServiceStatus(ctx, "biz-1", "svc-1", domain.ServiceStatus("ARCHIVED"))
		assert.True(t, apperror.HasCode(err, http.StatusBadRequest))
	})
}

func TestUpdateCandidateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("accept notifies the candidate", func(t *testing.T) {
		f := newEngagementFixture()
		f.candidates.On("GetByID", mock.Anything, "cand-1").
			Return(&domain.Candidate{ID: "cand-1", ServiceID: "svc-1", ProfileID: "talent-1", Status: domain.CandidateStatusPending}, nil)
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("UpdateStatus", mock.Anything, "cand-1", domain.CandidateStatusAccepted).Return(nil)
		f.notifier.On("Notify", mock.Anything, "talent-1", "Your status on service 'Backend developer' has been updated to: Application accepted.", "svc-1", domain.NotificationKindService).Return(nil)

		require.NoError(t, f.uc.UpdateCandidateStatus(ctx, "biz-1", "cand-1", domain.CandidateStatusAccepted))
		f.candidates.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unlisted transition is still persisted", func(t *testing.T) {
		f := newEngagementFixture()
		f.candidates.On("GetByID", mock.Anything, "cand-1").
			Return(&domain.Candidate{ID: "cand-1", ServiceID: "svc-1", ProfileID: "talent-1", Status: domain.CandidateStatusRejected}, nil)
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("UpdateStatus", mock.Anything, "cand-1", domain.CandidateStatusAccepted).Return(nil)
		f.notifier.On("Notify", mock.Anything, "talent-1", "Your status on service 'Backend developer' has been updated to: Application accepted.", "svc-1", domain.NotificationKindService).Return(nil)

		require.NoError(t, f.uc.UpdateCandidateStatus(ctx, "biz-1", "cand-1", domain.CandidateStatusAccepted))
		f.candidates.AssertCalled(t, "UpdateStatus", mock.Anything, "cand-1", domain.CandidateStatusAccepted)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newEngagementFixture()
		f.candidates.On("GetByID", mock.Anything, "cand-1").
			Return(&domain.Candidate{ID: "cand-1", ServiceID: "svc-1", ProfileID: "talent-1", Status: domain.CandidateStatusPending}, nil)
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)

		err := f.uc.UpdateCandidateStatus(ctx, "talent-2", "cand-1", domain.CandidateStatusAccepted)
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.candidates.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing candidate is not found", func(t *testing.T) {
		f := newEngagementFixture()
		f.candidates.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		err := f.uc.UpdateCandidateStatus(ctx, "biz-1", "ghost", domain.CandidateStatusAccepted)
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	})
}

func TestGetService(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees ranked candidates", func(t *testing.T) {
		f := newEngagementFixture()
		ranked := []domain.Candidate{{ID: "c2"}, {ID: "c1"}}
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("HasApplied", mock.Anything, "biz-1", "svc-1").Return(false, nil)
		f.matching.On("RankCandidates", mock.Anything, "svc-1").Return(ranked, nil)

		service, err := f.uc.GetService(ctx, "biz-1", "svc-1")
		require.NoError(t, err)
		assert.Equal(t, ranked, service.Candidates)
	})

	t.Run("other profiles see only their own application flag", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.candidates.On("HasApplied", mock.Anything, "talent-1", "svc-1").Return(true, nil)

		service, err := f.uc.GetService(ctx, "talent-1", "svc-1")
		require.NoError(t, err)
		assert.True(t, service.HasApplied)
		assert.Empty(t, service.Candidates)
		f.matching.AssertNotCalled(t, "RankCandidates", mock.Anything, mock.Anything)
	})
}

func TestCreateService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an open service with its skills", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("Create", mock.Anything, mock.AnythingOfType("*domain.Service")).Return(nil)

		service, err := f.uc.CreateService(ctx, "biz-1", domain.ServiceInput{
			Title:         "Data engineer",
			CandidateKind: domain.ProfileKindTalent,
			SkillIDs:      []string{"sql", "go"},
			Vacancies:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ServiceStatusOpen, service.Status)
		assert.Equal(t, []string{"sql", "go"}, service.Skills)
		assert.True(t, service.IsOwnedBy("biz-1"))
	})

	t.Run("missing title is a bad request", func(t *testing.T) {
		f := newEngagementFixture()
		_, err := f.uc.CreateService(ctx, "biz-1", domain.ServiceInput{CandidateKind: domain.ProfileKindTalent})
		assert.True(t, apperror.HasCode(err, http.StatusBadRequest))
		f.services.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateService(t *testing.T) {
	ctx := context.Background()
	input := domain.ServiceInput{
		Title:         "Senior backend developer",
		CandidateKind: domain.ProfileKindTalent,
		SkillIDs:      []string{"go", "sql"},
		Vacancies:     2,
	}

	t.Run("owner edits keep status and reputation", func(t *testing.T) {
		f := newEngagementFixture()
		current := openService()
		current.Status = domain.ServiceStatusInProgress
		avg := 4.5
		current.AverageReview = &avg
		f.services.On("GetByID", mock.Anything, "svc-1").Return(current, nil)
		f.services.On("Update", mock.Anything, mock.AnythingOfType("*domain.Service")).Return(nil)

		service, err := f.uc.UpdateService(ctx, "biz-1", "svc-1", input)
		require.NoError(t, err)
		assert.Equal(t, "svc-1", service.ID)
		assert.Equal(t, "Senior backend developer", service.Title)
		assert.Equal(t, []string{"go", "sql"}, service.Skills)
		assert.Equal(t, domain.ServiceStatusInProgress, service.Status)
		require.NotNil(t, service.AverageReview)
		assert.Equal(t, 4.5, *service.AverageReview)
		assert.Equal(t, "biz-1", *service.OwnerID)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)

		_, err := f.uc.UpdateService(ctx, "talent-1", "svc-1", input)
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.services.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid input never loads the service", func(t *testing.T) {
		f := newEngagementFixture()

		_, err := f.uc.UpdateService(ctx, "biz-1", "svc-1", domain.ServiceInput{CandidateKind: domain.ProfileKindTalent})
		assert.True(t, apperror.HasCode(err, http.StatusBadRequest))
		f.services.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestServiceSkills(t *testing.T) {
	ctx := context.Background()

	t.Run("owner adds a skill", func(t *testing.T) {
		f := newEngagementFixture()
		withSkill := openService()
		withSkill.Skills = []string{"go"}
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil).Once()
		f.services.On("AddSkill", mock.Anything, "svc-1", "go").Return(nil)
		f.services.On("GetByID", mock.Anything, "svc-1").Return(withSkill, nil).Once()

		service, err := f.uc.AddServiceSkill(ctx, "biz-1", "svc-1", "go")
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, service.Skills)
	})

	t.Run("non owner cannot remove", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)

		_, err := f.uc.RemoveServiceSkill(ctx, "talent-1", "svc-1", "go")
		assert.True(t, apperror.HasCode(err, http.StatusForbidden))
		f.services.AssertNotCalled(t, "RemoveSkill", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removing an absent skill", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("GetByID", mock.Anything, "svc-1").Return(openService(), nil)
		f.services.On("RemoveSkill", mock.Anything, "svc-1", "rust").Return(domain.ErrNotFound)

		_, err := f.uc.RemoveServiceSkill(ctx, "biz-1", "svc-1", "rust")
		assert.True(t, apperror.HasCode(err, http.StatusNotFound))
	})
}

func TestListServices(t *testing.T) {
	ctx := context.Background()

	t.Run("owned narrowed by status", func(t *testing.T) {
		f := newEngagementFixture()
		status := domain.ServiceStatusOpen
		f.services.On("Search", mock.Anything, domain.ServiceFilter{OwnerID: "biz-1", Status: &status}).
			Return([]domain.Service{*openService()}, nil)

		list, err := f.uc.ListServices(ctx, "biz-1", domain.ServiceScopeOwned, &status)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("active is pending or accepted applications", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("Search", mock.Anything, mock.MatchedBy(func(filter domain.ServiceFilter) bool {
			return filter.ParticipantID == "talent-1" && filter.OwnerID == "" &&
				assert.ObjectsAreEqual([]domain.CandidateStatus{domain.CandidateStatusPending, domain.CandidateStatusAccepted}, filter.ParticipantStatuses)
		})).Return([]domain.Service{}, nil)

		_, err := f.uc.ListServices(ctx, "talent-1", domain.ServiceScopeActive, nil)
		require.NoError(t, err)
		f.services.AssertExpectations(t)
	})

	t.Run("completed needs a closed service", func(t *testing.T) {
		f := newEngagementFixture()
		f.services.On("Search", mock.Anything, mock.MatchedBy(func(filter domain.ServiceFilter) bool {
			return filter.ParticipantID == "talent-1" &&
				assert.ObjectsAreEqual([]domain.CandidateStatus{domain.CandidateStatusAccepted, domain.CandidateStatusEvaluated}, filter.ParticipantStatuses) &&
				len(filter.Statuses) == 5 && filter.Statuses[0] == domain.ServiceStatusCompleted
		})).Return([]domain.Service{}, nil)

		_, err := f.uc.ListServices(ctx, "talent-1", domain.ServiceScopeCompleted, nil)
		require.NoError(t, err)
		f.services.AssertExpectations(t)
	})

	t.Run("unknown scope", func(t *testing.T) {
		f := newEngagementFixture()

		_, err := f.uc.ListServices(ctx, "talent-1", domain.ServiceScope("archived"), nil)
		assert.True(t, apperror.HasCode(err, http.StatusBadRequest))
	})
}
