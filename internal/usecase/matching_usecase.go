package usecase

import (
	"context"

	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/matching"
	"talent-marketplace-backend/pkg/apperror"

	"golang.org/x/sync/errgroup"
)

// lookupConcurrency bounds parallel repository reads per request.
const lookupConcurrency = 4

type matchingUsecase struct {
	services   domain.ServiceRepository
	candidates domain.CandidateRepository
	profiles   domain.ProfileRepository
	limit      int
}

func NewMatchingUsecase(
	services domain.ServiceRepository,
	candidates domain.CandidateRepository,
	profiles domain.ProfileRepository,
	limit int,
) domain.MatchingUsecase {
	if limit <= 0 {
		limit = matching.DefaultSuggestionLimit
	}
	return &matchingUsecase{
		services:   services,
		candidates: candidates,
		profiles:   profiles,
		limit:      limit,
	}
}

func (uc *matchingUsecase) RankCandidates(ctx context.Context, serviceID string) ([]domain.Candidate, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	candidates, err := uc.candidates.ListByService(ctx, serviceID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	facts := make([]matching.Facts, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			skills, err := uc.profiles.GetSkills(gctx, c.ProfileID)
			if err != nil {
				return err
			}
			addressID, err := uc.profiles.GetAddress(gctx, c.ProfileID)
			if err != nil {
				return err
			}
			facts[i] = matching.Facts{Skills: skills, AddressID: addressID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fromRepo(err, "Profile not found")
	}

	byProfile := make(map[string]matching.Facts, len(candidates))
	for i, c := range candidates {
		byProfile[c.ProfileID] = facts[i]
	}
	return matching.RankCandidates(*service, candidates, byProfile), nil
}

// SuggestProfiles ranks profiles that share the service's address or any of
// its skills. The owner and existing candidates are never suggested.
func (uc *matchingUsecase) SuggestProfiles(ctx context.Context, serviceID string) ([]domain.Profile, error) {
	service, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fromRepo(err, "Service not found")
	}
	candidates, err := uc.candidates.ListByService(ctx, serviceID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var kind *domain.ProfileKind
	if service.CandidateKind != domain.ProfileKindDual {
		k := service.CandidateKind
		kind = &k
	}
	var ownerID string
	if service.OwnerID != nil {
		ownerID = *service.OwnerID
	}

	var filters []domain.ProfileFilter
	if service.AddressID != nil {
		filters = append(filters, domain.ProfileFilter{AddressID: service.AddressID, Kind: kind, ExcludeID: ownerID})
	}
	for _, skill := range uniqueSkills(service.Skills) {
		filters = append(filters, domain.ProfileFilter{SkillID: &skill, Kind: kind, ExcludeID: ownerID})
	}

	lookups := make([][]domain.Profile, len(filters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, f := range filters {
		g.Go(func() error {
			hits, err := uc.profiles.Search(gctx, f)
			lookups[i] = hits
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}

	excluded := make(map[string]struct{}, len(candidates)+1)
	for _, c := range candidates {
		excluded[c.ProfileID] = struct{}{}
	}
	if ownerID != "" {
		excluded[ownerID] = struct{}{}
	}
	return matching.SuggestProfiles(lookups, excluded, uc.limit), nil
}

// SuggestServices ranks OPEN services the profile could apply to.
func (uc *matchingUsecase) SuggestServices(ctx context.Context, profileID string) ([]domain.Service, error) {
	profile, err := uc.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fromRepo(err, "Profile not found")
	}
	skills, err := uc.profiles.GetSkills(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	applied, err := uc.candidates.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var kinds []domain.ProfileKind
	if profile.Kind != domain.ProfileKindDual {
		kinds = []domain.ProfileKind{profile.Kind, domain.ProfileKindDual}
	}
	open := domain.ServiceStatusOpen

	var filters []domain.ServiceFilter
	if profile.AddressID != nil {
		filters = append(filters, domain.ServiceFilter{AddressID: profile.AddressID, Kinds: kinds, Status: &open, ExcludeOwnerID: profileID})
	}
	for _, skill := range uniqueSkills(skills) {
		filters = append(filters, domain.ServiceFilter{SkillID: &skill, Kinds: kinds, Status: &open, ExcludeOwnerID: profileID})
	}

	lookups := make([][]domain.Service, len(filters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, f := range filters {
		g.Go(func() error {
			hits, err := uc.services.Search(gctx, f)
			lookups[i] = hits
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}

	excluded := make(map[string]struct{}, len(applied))
	for _, c := range applied {
		excluded[c.ServiceID] = struct{}{}
	}
	return matching.SuggestServices(lookups, excluded, uc.limit), nil
}

func uniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
