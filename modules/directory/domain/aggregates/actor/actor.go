package actor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier places an actor in the reseller hierarchy. The set is closed;
// unknown values are rejected at the boundary.
type Tier string

const (
	TierDistributor Tier = "distributor"
	TierOffice      Tier = "office"
	TierAdvisor     Tier = "advisor"
	TierInvestor    Tier = "investor"
	TierAdmin       Tier = "admin"
)

func ParseTier(v string) (Tier, error) {
	switch Tier(strings.TrimSpace(strings.ToLower(v))) {
	case TierDistributor:
		return TierDistributor, nil
	case TierOffice:
		return TierOffice, nil
	case TierAdvisor:
		return TierAdvisor, nil
	case TierInvestor:
		return TierInvestor, nil
	case TierAdmin:
		return TierAdmin, nil
	default:
		return "", fmt.Errorf("unknown tier %q", v)
	}
}

// Actor is a profile in the organizational graph. The three pointers are
// directed edges towards the owning distributor; administrators reassign
// them at will, so nothing here may be cached across requests.
type Actor struct {
	id            uuid.UUID
	displayName   string
	email         string
	tier          Tier
	advisorID     *uuid.UUID
	officeID      *uuid.UUID
	distributorID *uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
}

func New(displayName, email string, tier Tier) Actor {
	return Actor{
		displayName: strings.TrimSpace(displayName),
		email:       strings.TrimSpace(strings.ToLower(email)),
		tier:        tier,
	}
}

func Hydrate(
	id uuid.UUID,
	displayName string,
	email string,
	tier Tier,
	advisorID *uuid.UUID,
	officeID *uuid.UUID,
	distributorID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Actor {
	return Actor{
		id:            id,
		displayName:   strings.TrimSpace(displayName),
		email:         strings.TrimSpace(strings.ToLower(email)),
		tier:          tier,
		advisorID:     advisorID,
		officeID:      officeID,
		distributorID: distributorID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a Actor) ID() uuid.UUID { return a.id }
func (a Actor) DisplayName() string { return a.displayName }
func (a Actor) Email() string { return a.email }
func (a Actor) Tier() Tier { return a.tier }
func (a Actor) AdvisorID() *uuid.UUID { return a.advisorID }
func (a Actor) OfficeID() *uuid.UUID { return a.officeID }
func (a Actor) DistributorID() *uuid.UUID { return a.distributorID }
func (a Actor) CreatedAt() time.Time { return a.createdAt }
func (a Actor) UpdatedAt() time.Time { return a.updatedAt }
func (a Actor) IsZero() bool { return a.id == uuid.Nil && a.email == "" }

// WithHierarchy returns a copy with the hierarchy pointers set. Pointer
// shape validation belongs to the directory service.
func (a Actor) WithHierarchy(advisorID, officeID, distributorID *uuid.UUID) Actor {
	out := a
	out.advisorID = advisorID
	out.officeID = officeID
	out.distributorID = distributorID
	return out
}
