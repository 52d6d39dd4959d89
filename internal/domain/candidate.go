package domain

import (
	"context"
	"time"
)

// CandidateStatus is the state of one profile's application to one service.
type CandidateStatus string

const (
	CandidateStatusPending   CandidateStatus = "PENDING"
	CandidateStatusAccepted  CandidateStatus = "ACCEPTED"
	CandidateStatusRejected  CandidateStatus = "REJECTED"
	CandidateStatusEvaluated CandidateStatus = "EVALUATED"
)

func (s CandidateStatus) IsValid() bool {
	switch s {
	case CandidateStatusPending, CandidateStatusAccepted, CandidateStatusRejected, CandidateStatusEvaluated:
		return true
	}
	return false
}

// CanTransitionTo reports whether next follows the documented flow
// PENDING -> ACCEPTED | REJECTED, ACCEPTED -> EVALUATED.
func (s CandidateStatus) CanTransitionTo(next CandidateStatus) bool {
	switch s {
	case CandidateStatusPending:
		return next == CandidateStatusAccepted || next == CandidateStatusRejected
	case CandidateStatusAccepted:
		return next == CandidateStatusEvaluated
	}
	return false
}

// Candidate links one profile to one service. At most one exists per (service, profile).
type Candidate struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"service_id"`
	ProfileID string          `json:"profile_id"`
	Status    CandidateStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Joined data for list responses
	ProfileName *string `json:"profile_name,omitempty"`
}

type CandidateRepository interface {
	// Create returns ErrDuplicate when the (service, profile) pair already exists.
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	ListByService(ctx context.Context, serviceID string) ([]Candidate, error)
	ListByProfile(ctx context.Context, profileID string) ([]Candidate, error)
	HasApplied(ctx context.Context, profileID, serviceID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status CandidateStatus) error
	// HasAccepted reports whether profileID holds any ACCEPTED candidate row.
	HasAccepted(ctx context.Context, profileID string) (bool, error)
	// MarkEvaluated flips the ACCEPTED row of profileID on serviceID to EVALUATED.
	MarkEvaluated(ctx context.Context, profileID, serviceID string) error
}

// EngagementUsecase drives service and candidate status transitions.
type EngagementUsecase interface {
	CreateService(ctx context.Context, ownerID string, input ServiceInput) (*Service, error)
	CreateExternalService(ctx context.Context, creatorID string, input ExternalServiceInput) (*Service, error)
	GetService(ctx context.Context, requesterID, serviceID string) (*Service, error)
	Apply(ctx context.Context, profileID, serviceID string) (*Candidate, error)
	UpdateCandidateStatus(ctx context.Context, requesterID, candidateID string, status CandidateStatus) error
	UpdateServiceStatus(ctx context.Context, requesterID, serviceID string, status ServiceStatus) error
	UpdateService(ctx context.Context, requesterID, serviceID string, input ServiceInput) (*Service, error)
	AddServiceSkill(ctx context.Context, requesterID, serviceID, skillID string) (*Service, error)
	RemoveServiceSkill(ctx context.Context, requesterID, serviceID, skillID string) (*Service, error)
	// ListServices returns the profile's services in scope, optionally narrowed to one status.
	ListServices(ctx context.Context, profileID string, scope ServiceScope, status *ServiceStatus) ([]Service, error)
}

// MatchingUsecase ranks candidate pools and builds suggestions.
type MatchingUsecase interface {
	RankCandidates(ctx context.Context, serviceID string) ([]Candidate, error)
	SuggestProfiles(ctx context.Context, serviceID string) ([]Profile, error)
	SuggestServices(ctx context.Context, profileID string) ([]Service, error)
}
