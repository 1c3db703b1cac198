package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/pkg/eventbus"
	"github.com/vestaclub/vesta/pkg/metrics"
	"github.com/vestaclub/vesta/pkg/serrors"
)

func TestDirectoryService_CreatePublishesEvent(t *testing.T) {
	repo := newFakeActorRepo()
	bus := eventbus.NewEventPublisher(logrus.New())
	svc := services.NewDirectoryService(repo, bus)

	var published *services.ActorCreatedEvent
	bus.Subscribe(func(e *services.ActorCreatedEvent) {
		published = e
	})

	countBefore := testutil.ToFloat64(metrics.ActorsCreated)
	created, err := svc.Create(context.Background(), &actor.CreateDTO{
		DisplayName: "Ines",
		Email:       "Ines@Example.com",
		Tier:        "investor",
	})
	require.NoError(t, err)
	assert.Equal(t, actor.TierInvestor, created.Tier())
	assert.Equal(t, "ines@example.com", created.Email())
	require.NotNil(t, published)
	assert.Equal(t, created.Email(), published.Actor.Email())
	assert.Equal(t, countBefore+1, testutil.ToFloat64(metrics.ActorsCreated))
}

func TestDirectoryService_CreateValidatesHierarchyShape(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewDirectoryService(repo, eventbus.NewEventPublisher(logrus.New()))

	someID := uuid.New().String()
	cases := map[string]*actor.CreateDTO{
		"advisor with distributor edge": {
			DisplayName: "Vera", Email: "vera@example.com", Tier: "advisor",
			DistributorID: someID,
		},
		"office with advisor edge": {
			DisplayName: "Oslo Desk", Email: "oslo@example.com", Tier: "office",
			AdvisorID: someID,
		},
		"distributor with any edge": {
			DisplayName: "Dist", Email: "dist@example.com", Tier: "distributor",
			OfficeID: someID,
		},
	}
	for name, dto := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), dto)
			require.Error(t, err)
			assert.Equal(t, serrors.ClassValidation, serrors.ClassOf(err))
		})
	}
}

func TestDirectoryService_CreateRejectsUnknownTier(t *testing.T) {
	svc := services.NewDirectoryService(newFakeActorRepo(), eventbus.NewEventPublisher(logrus.New()))

	_, err := svc.Create(context.Background(), &actor.CreateDTO{
		DisplayName: "X", Email: "x@example.com", Tier: "manager",
	})
	require.Error(t, err)
	assert.Equal(t, serrors.ClassValidation, serrors.ClassOf(err))
}
