package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
)

// AccessService decides whether one actor may view or manage records owned
// by another, by walking the organizational graph upwards. Every call
// re-resolves from current pointers: hierarchy edges are reassigned by
// administrators at any time, so caching here would serve stale chains.
type AccessService struct {
	repo actor.Repository
}

func NewAccessService(repo actor.Repository) *AccessService {
	return &AccessService{repo: repo}
}

// CanAccess reports whether a may act on records owned by ownerID. A
// missing subject or intermediate record means "no access", not an error.
// At most three record lookups happen per call, short-circuiting on the
// first match.
func (s *AccessService) CanAccess(ctx context.Context, a actor.Actor, ownerID uuid.UUID) (bool, error) {
	if a.ID() == ownerID {
		return true, nil
	}
	if a.Tier() == actor.TierAdmin {
		return true, nil
	}

	subject, ok, err := s.lookup(ctx, ownerID)
	if err != nil || !ok {
		return false, err
	}

	switch a.Tier() {
	case actor.TierAdvisor:
		return pointsAt(subject.AdvisorID(), a.ID()), nil
	case actor.TierOffice:
		return s.officeOwns(ctx, a.ID(), subject)
	case actor.TierDistributor:
		return s.distributorOwns(ctx, a.ID(), subject)
	default:
		return false, nil
	}
}

// officeOwns: the subject reports to the office directly, or through its
// advisor (one extra hop).
func (s *AccessService) officeOwns(ctx context.Context, officeID uuid.UUID, subject actor.Actor) (bool, error) {
	if pointsAt(subject.OfficeID(), officeID) {
		return true, nil
	}
	if subject.AdvisorID() == nil {
		return false, nil
	}
	advisor, ok, err := s.lookup(ctx, *subject.AdvisorID())
	if err != nil || !ok {
		return false, err
	}
	return pointsAt(advisor.OfficeID(), officeID), nil
}

// distributorOwns: direct edge, or via the subject's chain. The advisor
// chain is checked before the office chain because an investor's effective
// owning chain prefers the most specific pointer.
func (s *AccessService) distributorOwns(ctx context.Context, distributorID uuid.UUID, subject actor.Actor) (bool, error) {
	if pointsAt(subject.DistributorID(), distributorID) {
		return true, nil
	}

	if subject.AdvisorID() != nil {
		advisor, ok, err := s.lookup(ctx, *subject.AdvisorID())
		if err != nil {
			return false, err
		}
		if ok && advisor.OfficeID() != nil {
			office, ok, err := s.lookup(ctx, *advisor.OfficeID())
			if err != nil {
				return false, err
			}
			if ok && pointsAt(office.DistributorID(), distributorID) {
				return true, nil
			}
		}
		return false, nil
	}

	if subject.OfficeID() != nil {
		office, ok, err := s.lookup(ctx, *subject.OfficeID())
		if err != nil || !ok {
			return false, err
		}
		return pointsAt(office.DistributorID(), distributorID), nil
	}

	return false, nil
}

func (s *AccessService) lookup(ctx context.Context, id uuid.UUID) (actor.Actor, bool, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			return actor.Actor{}, false, nil
		}
		return actor.Actor{}, false, err
	}
	return a, true, nil
}

func pointsAt(edge *uuid.UUID, target uuid.UUID) bool {
	return edge != nil && *edge == target
}
