package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notification is a transport-neutral message for an actor. Delivery
// channels (email, push) live behind Dispatcher implementations; the
// portal only decides who should hear about what.
type Notification struct {
	RecipientID uuid.UUID
	Event       string
	Payload     map[string]string
}

// Dispatcher delivers notifications. Failures are the caller's to log;
// domain flows treat delivery as best-effort and never roll back on it.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

type logDispatcher struct {
	logger *logrus.Logger
}

// NewLogDispatcher returns a Dispatcher that records notifications in the
// application log. It stands in until an outbound channel is wired.
func NewLogDispatcher(logger *logrus.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(_ context.Context, n Notification) error {
	d.logger.WithFields(logrus.Fields{
		"recipient": n.RecipientID.String(),
		"event":     n.Event,
		"payload":   n.Payload,
	}).Info("notification dispatched")
	return nil
}
