package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/directory/presentation/viewmodels"
)

func ActorToViewModel(a actor.Actor) viewmodels.Actor {
	return viewmodels.Actor{
		ID:            a.ID().String(),
		DisplayName:   a.DisplayName(),
		Email:         a.Email(),
		Tier:          string(a.Tier()),
		AdvisorID:     optionalID(a.AdvisorID()),
		OfficeID:      optionalID(a.OfficeID()),
		DistributorID: optionalID(a.DistributorID()),
		CreatedAt:     a.CreatedAt().Format(time.RFC3339),
	}
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
