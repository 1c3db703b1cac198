package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/pkg/eventbus"
	"github.com/vestaclub/vesta/pkg/metrics"
	"github.com/vestaclub/vesta/pkg/serrors"
)

var errBadHierarchy = serrors.Validation("DIRECTORY_BAD_HIERARCHY", "hierarchy pointers do not match tier")

type ActorCreatedEvent struct {
	Actor actor.Actor
}

type DirectoryService struct {
	repo      actor.Repository
	publisher eventbus.EventBus
}

func NewDirectoryService(repo actor.Repository, publisher eventbus.EventBus) *DirectoryService {
	s := &DirectoryService{repo: repo, publisher: publisher}
	publisher.Subscribe(s.onActorCreated)
	return s
}

func (s *DirectoryService) onActorCreated(*ActorCreatedEvent) {
	metrics.ActorsCreated.Inc()
}

func (s *DirectoryService) GetByID(ctx context.Context, id uuid.UUID) (actor.Actor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DirectoryService) GetPaginated(ctx context.Context, params *actor.FindParams) ([]actor.Actor, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *DirectoryService) Create(ctx context.Context, dto *actor.CreateDTO) (actor.Actor, error) {
	if dto == nil {
		return actor.Actor{}, serrors.Validation("DIRECTORY_MISSING_DTO", "missing dto")
	}
	dto.Normalize()

	tier, err := actor.ParseTier(dto.Tier)
	if err != nil {
		return actor.Actor{}, serrors.Validation("DIRECTORY_UNKNOWN_TIER", err.Error())
	}

	advisorID, err := parseOptionalUUID(dto.AdvisorID)
	if err != nil {
		return actor.Actor{}, serrors.Validation("DIRECTORY_BAD_ADVISOR_ID", "invalid advisor id")
	}
	officeID, err := parseOptionalUUID(dto.OfficeID)
	if err != nil {
		return actor.Actor{}, serrors.Validation("DIRECTORY_BAD_OFFICE_ID", "invalid office id")
	}
	distributorID, err := parseOptionalUUID(dto.DistributorID)
	if err != nil {
		return actor.Actor{}, serrors.Validation("DIRECTORY_BAD_DISTRIBUTOR_ID", "invalid distributor id")
	}

	if err := validateHierarchyShape(tier, advisorID, officeID, distributorID); err != nil {
		return actor.Actor{}, err
	}

	entity := actor.New(dto.DisplayName, dto.Email, tier).
		WithHierarchy(advisorID, officeID, distributorID)
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return actor.Actor{}, err
	}
	s.publisher.Publish(&ActorCreatedEvent{Actor: created})
	return created, nil
}

// validateHierarchyShape enforces which edges each tier may carry:
// investors point at an advisor, office or distributor; advisors at an
// office; offices at a distributor; distributors and admins at nothing.
func validateHierarchyShape(tier actor.Tier, advisorID, officeID, distributorID *uuid.UUID) error {
	switch tier {
	case actor.TierInvestor:
		return nil
	case actor.TierAdvisor:
		if advisorID != nil || distributorID != nil {
			return errBadHierarchy
		}
	case actor.TierOffice:
		if advisorID != nil || officeID != nil {
			return errBadHierarchy
		}
	case actor.TierDistributor, actor.TierAdmin:
		if advisorID != nil || officeID != nil || distributorID != nil {
			return errBadHierarchy
		}
	}
	return nil
}

func parseOptionalUUID(v string) (*uuid.UUID, error) {
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
