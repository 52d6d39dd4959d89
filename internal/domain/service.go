package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)

// ServiceStatus is the lifecycle state of a service listing.
//
//	OPEN -> IN_PROGRESS -> COMPLETED
//	EXTERNAL_PENDING -> EXTERNAL_COMPLETED | EXTERNAL_REJECTED
//	EXTERNAL_UNASSIGNED (no owning business, set at creation)
type ServiceStatus string

const (
	ServiceStatusOpen               ServiceStatus = "OPEN"
	ServiceStatusInProgress         ServiceStatus = "IN_PROGRESS"
	ServiceStatusCompleted          ServiceStatus = "COMPLETED"
	ServiceStatusExternalPending    ServiceStatus = "EXTERNAL_PENDING"
	ServiceStatusExternalCompleted  ServiceStatus = "EXTERNAL_COMPLETED"
	ServiceStatusExternalRejected   ServiceStatus = "EXTERNAL_REJECTED"
	ServiceStatusExternalUnassigned ServiceStatus = "EXTERNAL_UNASSIGNED"
)

func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusOpen, ServiceStatusInProgress, ServiceStatusCompleted,
		ServiceStatusExternalPending, ServiceStatusExternalCompleted,
		ServiceStatusExternalRejected, ServiceStatusExternalUnassigned:
		return true
	}
	return false
}

// Payment is the offered payment range of a service.
type Payment struct {
	Type      string   `json:"type,omitempty"`
	AmountMin *float64 `json:"amount_min,omitempty"`
	AmountMax *float64 `json:"amount_max,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

type Service struct {
	ID            string        `json:"id"`
	OwnerID       *string       `json:"owner_id"` // nil for EXTERNAL_UNASSIGNED services
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CandidateKind ProfileKind   `json:"candidate_kind"`
	Skills        []string      `json:"skills"`
	AddressID     *int64        `json:"address_id,omitempty"`
	Status        ServiceStatus `json:"status"`
	Vacancies     int           `json:"vacancies"`
	Payment       Payment       `json:"payment"`
	AverageReview *float64      `json:"average_review"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Populated by GetService only
	HasApplied bool        `json:"has_applied"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// IsOwnedBy reports whether profileID owns the service.
func (s *Service) IsOwnedBy(profileID string) bool {
	return s.OwnerID != nil && *s.OwnerID == profileID
}

// ServiceInput carries the fields a profile supplies when publishing a service.
type ServiceInput struct {
	Title         string      `json:"title" validate:"required,max=200,no_emoji"`
	Description   string      `json:"description" validate:"max=5000"`
	CandidateKind ProfileKind `json:"candidate_kind" validate:"required,profile_kind"`
	SkillIDs      []string    `json:"skill_ids" validate:"omitempty,unique,dive,required"`
	AddressID     *int64      `json:"address_id"`
	Vacancies     int         `json:"vacancies" validate:"min=0"`
	Payment       Payment     `json:"payment"`
}

// ExternalServiceInput registers work done outside the marketplace. BusinessID
// is optional; without it the service has no owner.
type ExternalServiceInput struct {
	Title       string   `json:"title" validate:"required,max=200,no_emoji"`
	Description string   `json:"description" validate:"max=5000"`
	SkillIDs    []string `json:"skill_ids" validate:"omitempty,unique,dive,required"`
	AddressID   *int64   `json:"address_id"`
	BusinessID  string   `json:"business_id"`
}

// ServiceScope selects which of a profile's services a listing returns.
type ServiceScope string

const (
	ServiceScopeOwned     ServiceScope = "owned"     // published by the profile
	ServiceScopeActive    ServiceScope = "active"    // applied to, PENDING or ACCEPTED
	ServiceScopeCompleted ServiceScope = "completed" // worked on and closed
)

func (s ServiceScope) IsValid() bool {
	return s == ServiceScopeOwned || s == ServiceScopeActive || s == ServiceScopeCompleted
}

// ServiceFilter narrows a service search. Nil/empty fields do not filter.
type ServiceFilter struct {
	AddressID      *int64
	SkillID        *string
	Kinds          []ProfileKind
	Status         *ServiceStatus
	Statuses       []ServiceStatus
	OwnerID        string
	ExcludeOwnerID string
	// ParticipantID keeps services where the profile holds a candidate row,
	// restricted to ParticipantStatuses when set.
	ParticipantID       string
	ParticipantStatuses []CandidateStatus
}

type ServiceRepository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	Search(ctx context.Context, filter ServiceFilter) ([]Service, error)
	UpdateStatus(ctx context.Context, id string, status ServiceStatus) error
	UpdateReputation(ctx context.Context, id string, value *float64) error
	// ListReputationsByOwner returns the non-null service averages of every service ownerID owns.
	ListReputationsByOwner(ctx context.Context, ownerID string) ([]float64, error)
	// Update rewrites the editable fields and replaces the skill list.
	Update(ctx context.Context, service *Service) error
	// AddSkill appends a skill; a no-op when the service already requires it.
	AddSkill(ctx context.Context, serviceID, skillID string) error
	// RemoveSkill returns ErrNotFound when the service does not require the skill.
	RemoveSkill(ctx context.Context, serviceID, skillID string) error
}
