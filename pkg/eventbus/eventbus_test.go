package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/pkg/eventbus"
)

type investmentApproved struct {
	ID string
}

func TestEventBus_PublishToMatchingSubscriber(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	var got *investmentApproved
	bus.Subscribe(func(event *investmentApproved) {
		got = event
	})
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(&investmentApproved{ID: "inv-1"})
	require.NotNil(t, got)
	assert.Equal(t, "inv-1", got.ID)
}

func TestEventBus_SignatureMismatchIsSkipped(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	called := false
	bus.Subscribe(func(event *investmentApproved, extra int) {
		called = true
	})

	bus.Publish(&investmentApproved{ID: "inv-2"})
	assert.False(t, called)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	handler := func(event *investmentApproved) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestEventBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	bus.Subscribe(func(event *investmentApproved) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(&investmentApproved{ID: "inv-3"})
	})
}
