package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/directory/services"
)

type fakeActorRepo struct {
	actors map[uuid.UUID]actor.Actor
	calls  int
}

func newFakeActorRepo() *fakeActorRepo {
	return &fakeActorRepo{actors: make(map[uuid.UUID]actor.Actor)}
}

func (r *fakeActorRepo) put(a actor.Actor) {
	r.actors[a.ID()] = a
}

func (r *fakeActorRepo) GetByID(_ context.Context, id uuid.UUID) (actor.Actor, error) {
	r.calls++
	a, ok := r.actors[id]
	if !ok {
		return actor.Actor{}, actor.ErrNotFound
	}
	return a, nil
}

func (r *fakeActorRepo) GetByEmail(context.Context, string) (actor.Actor, error) {
	return actor.Actor{}, actor.ErrNotFound
}

func (r *fakeActorRepo) GetPaginated(context.Context, *actor.FindParams) ([]actor.Actor, int64, error) {
	return nil, 0, nil
}

func (r *fakeActorRepo) Create(_ context.Context, a actor.Actor) (actor.Actor, error) {
	r.put(a)
	return a, nil
}

func (r *fakeActorRepo) Update(_ context.Context, a actor.Actor) (actor.Actor, error) {
	r.put(a)
	return a, nil
}

func makeActor(tier actor.Tier, advisorID, officeID, distributorID *uuid.UUID) actor.Actor {
	id := uuid.New()
	return actor.Hydrate(
		id, "Actor "+id.String()[:8], id.String()[:8]+"@example.com",
		tier, advisorID, officeID, distributorID,
		time.Now(), time.Now(),
	)
}

func TestAccessService_SelfAccess(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	investor := makeActor(actor.TierInvestor, nil, nil, nil)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), investor, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, repo.calls, "self-access must not hit the repository")
}

func TestAccessService_AdminSeesEverything(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	admin := makeActor(actor.TierAdmin, nil, nil, nil)
	investor := makeActor(actor.TierInvestor, nil, nil, nil)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), admin, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessService_AdvisorDirectEdge(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	advisor := makeActor(actor.TierAdvisor, nil, nil, nil)
	advisorID := advisor.ID()
	investor := makeActor(actor.TierInvestor, &advisorID, nil, nil)
	repo.put(advisor)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), advisor, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)

	stranger := makeActor(actor.TierInvestor, nil, nil, nil)
	repo.put(stranger)
	ok, err = svc.CanAccess(context.Background(), advisor, stranger.ID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessService_OfficeViaAdvisorHop(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	office := makeActor(actor.TierOffice, nil, nil, nil)
	officeID := office.ID()
	advisor := makeActor(actor.TierAdvisor, nil, &officeID, nil)
	advisorID := advisor.ID()
	investor := makeActor(actor.TierInvestor, &advisorID, nil, nil)
	repo.put(office)
	repo.put(advisor)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), office, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)
}

// Distributor D owns office O, O manages advisor V, V advises investor I.
// D must reach I through the two-hop chain.
func TestAccessService_DistributorChainMonotonicity(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	distributor := makeActor(actor.TierDistributor, nil, nil, nil)
	distributorID := distributor.ID()
	office := makeActor(actor.TierOffice, nil, nil, &distributorID)
	officeID := office.ID()
	advisor := makeActor(actor.TierAdvisor, nil, &officeID, nil)
	advisorID := advisor.ID()
	investor := makeActor(actor.TierInvestor, &advisorID, nil, nil)
	repo.put(distributor)
	repo.put(office)
	repo.put(advisor)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), distributor, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.LessOrEqual(t, repo.calls, 3, "resolver must stay within three lookups")
}

func TestAccessService_DistributorViaDirectOffice(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	distributor := makeActor(actor.TierDistributor, nil, nil, nil)
	distributorID := distributor.ID()
	office := makeActor(actor.TierOffice, nil, nil, &distributorID)
	officeID := office.ID()
	investor := makeActor(actor.TierInvestor, nil, &officeID, nil)
	repo.put(distributor)
	repo.put(office)
	repo.put(investor)

	ok, err := svc.CanAccess(context.Background(), distributor, investor.ID())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessService_FailClosed(t *testing.T) {
	repo := newFakeActorRepo()
	svc := services.NewAccessService(repo)

	t.Run("no connecting edge", func(t *testing.T) {
		distributor := makeActor(actor.TierDistributor, nil, nil, nil)
		investor := makeActor(actor.TierInvestor, nil, nil, nil)
		repo.put(distributor)
		repo.put(investor)

		ok, err := svc.CanAccess(context.Background(), distributor, investor.ID())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing subject", func(t *testing.T) {
		advisor := makeActor(actor.TierAdvisor, nil, nil, nil)
		repo.put(advisor)

		ok, err := svc.CanAccess(context.Background(), advisor, uuid.New())
		require.NoError(t, err, "missing records deny access, they do not error")
		assert.False(t, ok)
	})

	t.Run("missing intermediate advisor", func(t *testing.T) {
		office := makeActor(actor.TierOffice, nil, nil, nil)
		danglingAdvisor := uuid.New()
		investor := makeActor(actor.TierInvestor, &danglingAdvisor, nil, nil)
		repo.put(office)
		repo.put(investor)

		ok, err := svc.CanAccess(context.Background(), office, investor.ID())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("investor tier never manages others", func(t *testing.T) {
		a := makeActor(actor.TierInvestor, nil, nil, nil)
		b := makeActor(actor.TierInvestor, nil, nil, nil)
		repo.put(a)
		repo.put(b)

		ok, err := svc.CanAccess(context.Background(), a, b.ID())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
