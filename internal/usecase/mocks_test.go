package usecase_test

import (
	"context"

	"talent-marketplace-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// passTx runs fn inline; the repositories below are in-memory mocks.
type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// copy so callers may mutate the result
	s := *args.Get(0).(*domain.Service)
	return &s, args.Error(1)
}
func (m *MockServiceRepo) Search(ctx context.Context, f domain.ServiceFilter) ([]domain.Service, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockServiceRepo) Update(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockServiceRepo) AddSkill(ctx context.Context, serviceID, skillID string) error {
	return m.Called(ctx, serviceID, skillID).Error(0)
}
func (m *MockServiceRepo) RemoveSkill(ctx context.Context, serviceID, skillID string) error {
	return m.Called(ctx, serviceID, skillID).Error(0)
}
func (m *MockServiceRepo) UpdateStatus(ctx context.Context, id string, status domain.ServiceStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockServiceRepo) UpdateReputation(ctx context.Context, id string, value *float64) error {
	return m.Called(ctx, id, value).Error(0)
}
func (m *MockServiceRepo) ListReputationsByOwner(ctx context.Context, ownerID string) ([]float64, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) ListByService(ctx context.Context, serviceID string) ([]domain.Candidate, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Candidate, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) HasApplied(ctx context.Context, profileID, serviceID string) (bool, error) {
	args := m.Called(ctx, profileID, serviceID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCandidateRepo) UpdateStatus(ctx context.Context, id string, status domain.CandidateStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockCandidateRepo) HasAccepted(ctx context.Context, profileID string) (bool, error) {
	args := m.Called(ctx, profileID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCandidateRepo) MarkEvaluated(ctx context.Context, profileID, serviceID string) error {
	return m.Called(ctx, profileID, serviceID).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := *args.Get(0).(*domain.Profile)
	return &p, args.Error(1)
}
func (m *MockProfileRepo) GetSkills(ctx context.Context, profileID string) ([]string, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockProfileRepo) GetAddress(ctx context.Context, profileID string) (*int64, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}
func (m *MockProfileRepo) GetEmail(ctx context.Context, profileID string) (string, error) {
	args := m.Called(ctx, profileID)
	return args.String(0), args.Error(1)
}
func (m *MockProfileRepo) Search(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, id string, input domain.ProfileInput) error {
	return m.Called(ctx, id, input).Error(0)
}
func (m *MockProfileRepo) AddSkill(ctx context.Context, profileID, skillID string) error {
	return m.Called(ctx, profileID, skillID).Error(0)
}
func (m *MockProfileRepo) RemoveSkill(ctx context.Context, profileID, skillID string) error {
	return m.Called(ctx, profileID, skillID).Error(0)
}
func (m *MockProfileRepo) UpdateReputation(ctx context.Context, id string, value *float64) error {
	return m.Called(ctx, id, value).Error(0)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Insert(ctx context.Context, r *domain.Review) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}
func (m *MockReviewRepo) ListByDestination(ctx context.Context, destinationID string) ([]domain.Review, error) {
	return m.list(m.Called(ctx, destinationID))
}
func (m *MockReviewRepo) ListByDestinationAndType(ctx context.Context, destinationID string, t domain.ReviewType) ([]domain.Review, error) {
	return m.list(m.Called(ctx, destinationID, t))
}
func (m *MockReviewRepo) ListByDestinationServiceAndType(ctx context.Context, destinationID, serviceID string, t domain.ReviewType) ([]domain.Review, error) {
	return m.list(m.Called(ctx, destinationID, serviceID, t))
}
func (m *MockReviewRepo) ListByService(ctx context.Context, serviceID string) ([]domain.Review, error) {
	return m.list(m.Called(ctx, serviceID))
}
func (m *MockReviewRepo) list(args mock.Arguments) ([]domain.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipientID, text, originID string, kind domain.NotificationKind) error {
	return m.Called(ctx, recipientID, text, originID, kind).Error(0)
}

type MockMatching struct {
	mock.Mock
}

func (m *MockMatching) RankCandidates(ctx context.Context, serviceID string) ([]domain.Candidate, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}
func (m *MockMatching) SuggestProfiles(ctx context.Context, serviceID string) ([]domain.Profile, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).([]domain.Profile), args.Error(1)
}
func (m *MockMatching) SuggestServices(ctx context.Context, profileID string) ([]domain.Service, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64 { return &v }
