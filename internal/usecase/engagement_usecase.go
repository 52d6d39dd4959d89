package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var statusMessages = map[domain.CandidateStatus]string{
	domain.CandidateStatusPending:   "Application submitted.",
	domain.CandidateStatusAccepted:  "Application accepted.",
	domain.CandidateStatusRejected:  "Application rejected.",
	domain.CandidateStatusEvaluated: "Service completed and work evaluated.",
}

func statusNotice(service *domain.Service, status domain.CandidateStatus) string {
	return fmt.Sprintf("Your status on service '%s' has been updated to: %s", service.Title, statusMessages[status])
}

type engagementUsecase struct {
	tx         domain.TxManager
	services   domain.ServiceRepository
	candidates domain.CandidateRepository
	profiles   domain.ProfileRepository
	matching   domain.MatchingUsecase
	notifier   domain.Notifier
	validate   *validator.Validate
	log        *zap.Logger
}

func NewEngagementUsecase(
	tx domain.TxManager,
	services domain.ServiceRepository,
	candidates domain.CandidateRepository,
	profiles domain.ProfileRepository,
	matching domain.MatchingUsecase,
	notifier domain.Notifier,
	validate *validator.Validate,
	log *zap.Logger,
) domain.EngagementUsecase {
	return &engagementUsecase{
		tx:         tx,
		services:   services,
		candidates: candidates,
		profiles:   profiles,
		matching:   matching,
		notifier:   notifier,
		validate:   validate,
		log:        log.With(zap.String("component", "engagement")),
	}
}

// newService builds a complete Service in one step, skills included.
func newService(ownerID *string, title, description string, kind domain.ProfileKind, skills []string,
	addressID *int64, status domain.ServiceStatus, vacancies int, payment domain.Payment) *domain.Service {
	return &domain.Service{
		OwnerID:       ownerID,
		Title:         title,
		Description:   description,
		CandidateKind: kind,
		Skills:        append([]string(nil), skills...),
		AddressID:     addressID,
		Status:        status,
		Vacancies:     vacancies,
		Payment:       payment,
	}
}

func (uc *engagementUsecase) CreateService(ctx context.Context, ownerID string, input domain.ServiceInput) (*domain.Service, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	service := newService(&ownerID, input.Title, input.Description, input.CandidateKind, input.SkillIDs,
		input.AddressID, domain.ServiceStatusOpen, input.Vacancies, input.Payment)

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.services.Create(ctx, service)
	})
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	return service, nil
}

// CreateExternalService registers work done outside the marketplace. With a
// target business the creator is ACCEPTED and the business must validate it;
// without one the engagement is closed immediately.
func (uc *engagementUsecase) CreateExternalService(ctx context.Context, creatorID string, input domain.ExternalServiceInput) (*domain.Service, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	var (
		ownerID         *string
		status          = domain.ServiceStatusExternalUnassigned
		candidateStatus = domain.CandidateStatusEvaluated
	)
	if input.BusinessID != "" {
		if input.BusinessID == creatorID {
			return nil, apperror.Forbidden("You cannot register an external service for yourself")
		}
		if _, err := uc.profiles.GetByID(ctx, input.BusinessID); err != nil {
			return nil, fromRepo(err, "Business not found")
		}
		businessID := input.BusinessID
		ownerID = &businessID
		status = domain.ServiceStatusExternalPending
		candidateStatus = domain.CandidateStatusAccepted
	}

	service := newService(ownerID, input.Title, input.Description, domain.ProfileKindTalent, input.SkillIDs,
		input.AddressID, status, 1, domain.Payment{})

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.services.Create(ctx, service); err != nil {
			return err
		}
		candidate := &domain.Candidate{ServiceID: service.ID, ProfileID: creatorID, Status: candidateStatus}
		if err := uc.candidates.Create(ctx, candidate); err != nil {
			return err
		}
		if ownerID == nil {
			return nil
		}
		text := fmt.Sprintf("New external service pending validation: %s", service.Title)
		return uc.notifier.Notify(ctx, *ownerID, text, service.ID, domain.NotificationKindExternalService)
	})
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	return service, nil
}

// GetService returns the service with HasApplied set for the requester. The
// owner also gets the ranked candidate list.
func (uc *engagementUsecase) GetService(ctx context.Context, requesterID, serviceID string) (*domain.Service, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}

	applied, err := uc.candidates.HasApplied(ctx, requesterID, serviceID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	service.HasApplied = applied

	if service.IsOwnedBy(requesterID) {
		ranked, err := uc.matching.RankCandidates(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		service.Candidates = ranked
	}
	return service, nil
}

func (uc *engagementUsecase) Apply(ctx context.Context, profileID, serviceID string) (*domain.Candidate, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	if service.IsOwnedBy(profileID) {
		return nil, apperror.Forbidden("You cannot apply to your own service")
	}

	candidate := &domain.Candidate{ServiceID: serviceID, ProfileID: profileID, Status: domain.CandidateStatusPending}
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		applied, err := uc.candidates.HasApplied(ctx, profileID, serviceID)
		if err != nil {
			return err
		}
		if applied {
			return apperror.Forbidden("You have already applied to this service")
		}

		// The unique (service, profile) constraint settles concurrent applies.
		if err := uc.candidates.Create(ctx, candidate); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return apperror.Forbidden("You have already applied to this service")
			}
			return err
		}

		if service.OwnerID != nil {
			text := fmt.Sprintf("New candidate for service: %s", service.Title)
			if err := uc.notifier.Notify(ctx, *service.OwnerID, text, serviceID, domain.NotificationKindService); err != nil {
				return err
			}
		}
		return uc.notifier.Notify(ctx, profileID, statusNotice(service, domain.CandidateStatusPending), serviceID, domain.NotificationKindService)
	})
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	return candidate, nil
}

// UpdateCandidateStatus persists any valid target status. Transitions outside
// PENDING->{ACCEPTED,REJECTED} and ACCEPTED->EVALUATED are logged, not refused.
func (uc *engagementUsecase) UpdateCandidateStatus(ctx context.Context, requesterID, candidateID string, status domain.CandidateStatus) error {
	if !status.IsValid() {
		return apperror.BadRequest("Invalid candidate status")
	}

	candidate, err := uc.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return fromRepo(err, "Candidate not found")
	}
	service, err := uc.services.GetByID(ctx, candidate.ServiceID)
	if err != nil {
		return fromRepo(err, "Service not found")
	}
	if !service.IsOwnedBy(requesterID) {
		return apperror.Forbidden("Only the service owner can change a candidate's status")
	}

	if !candidate.Status.CanTransitionTo(status) {
		uc.log.Warn("unexpected candidate transition",
			zap.String("candidate_id", candidateID),
			zap.String("from", string(candidate.Status)),
			zap.String("to", string(status)),
		)
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.candidates.UpdateStatus(ctx, candidateID, status); err != nil {
			return err
		}
		return uc.notifier.Notify(ctx, candidate.ProfileID, statusNotice(service, status), service.ID, domain.NotificationKindService)
	})
	return fromRepo(err, "Candidate not found")
}

func (uc *engagementUsecase) UpdateServiceStatus(ctx context.Context, requesterID, serviceID string, status domain.ServiceStatus) error {
	if !status.IsValid() {
		return apperror.BadRequest("Invalid service status")
	}

	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return fromRepo(err, "Service not found")
	}
	if !service.IsOwnedBy(requesterID) {
		return apperror.Forbidden("Only the service owner can change its status")
	}

	return fromRepo(uc.services.UpdateStatus(ctx, serviceID, status), "Service not found")
}

// ownedService loads serviceID and refuses anyone but its owner.
func (uc *engagementUsecase) ownedService(ctx context.Context, requesterID, serviceID, action string) (*domain.Service, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	if !service.IsOwnedBy(requesterID) {
		return nil, apperror.Forbidden("Only the service owner can " + action)
	}
	return service, nil
}

// UpdateService rewrites the editable fields. Status, reputation and
// candidates are left as they are.
func (uc *engagementUsecase) UpdateService(ctx context.Context, requesterID, serviceID string, input domain.ServiceInput) (*domain.Service, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	current, err := uc.ownedService(ctx, requesterID, serviceID, "edit it")
	if err != nil {
		return nil, err
	}

	service := newService(current.OwnerID, input.Title, input.Description, input.CandidateKind, input.SkillIDs,
		input.AddressID, current.Status, input.Vacancies, input.Payment)
	service.ID = current.ID
	service.AverageReview = current.AverageReview
	service.CreatedAt = current.CreatedAt

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.services.Update(ctx, service)
	})
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	return service, nil
}

func (uc *engagementUsecase) AddServiceSkill(ctx context.Context, requesterID, serviceID, skillID string) (*domain.Service, error) {
	skillID = strings.TrimSpace(skillID)
	if skillID == "" {
		return nil, apperror.BadRequest("Skill is required")
	}
	if _, err := uc.ownedService(ctx, requesterID, serviceID, "edit its skills"); err != nil {
		return nil, err
	}
	if err := uc.services.AddSkill(ctx, serviceID, skillID); err != nil {
		return nil, apperror.Internal(err)
	}
	return uc.reload(ctx, serviceID)
}

func (uc *engagementUsecase) RemoveServiceSkill(ctx context.Context, requesterID, serviceID, skillID string) (*domain.Service, error) {
	if _, err := uc.ownedService(ctx, requesterID, serviceID, "edit its skills"); err != nil {
		return nil, err
	}
	if err := uc.services.RemoveSkill(ctx, serviceID, skillID); err != nil {
		return nil, fromRepo(err, "Skill not found on service")
	}
	return uc.reload(ctx, serviceID)
}

func (uc *engagementUsecase) reload(ctx context.Context, serviceID string) (*domain.Service, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	return service, nil
}

// closedStatuses are the service states that count as finished work.
var closedStatuses = []domain.ServiceStatus{
	domain.ServiceStatusCompleted,
	domain.ServiceStatusExternalPending,
	domain.ServiceStatusExternalCompleted,
	domain.ServiceStatusExternalUnassigned,
	domain.ServiceStatusExternalRejected,
}

// ListServices returns what the profile published (owned), what it is still
// engaged in (active) or what it worked on and is closed (completed).
func (uc *engagementUsecase) ListServices(ctx context.Context, profileID string, scope domain.ServiceScope, status *domain.ServiceStatus) ([]domain.Service, error) {
	if status != nil && !status.IsValid() {
		return nil, apperror.BadRequest("Invalid service status")
	}

	filter := domain.ServiceFilter{Status: status}
	switch scope {
	case "", domain.ServiceScopeOwned:
		filter.OwnerID = profileID
	case domain.ServiceScopeActive:
		filter.ParticipantID = profileID
		filter.ParticipantStatuses = []domain.CandidateStatus{domain.CandidateStatusPending, domain.CandidateStatusAccepted}
	case domain.ServiceScopeCompleted:
		filter.ParticipantID = profileID
		filter.ParticipantStatuses = []domain.CandidateStatus{domain.CandidateStatusAccepted, domain.CandidateStatusEvaluated}
		filter.Statuses = closedStatuses
	default:
		return nil, apperror.BadRequest("Scope must be owned, active or completed")
	}

	services, err := uc.services.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return services, nil
}
