package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vestaclub/vesta/pkg/constants"
)

var ErrNoActorID = errors.New("no actor id found in context")

// WithActorID attaches the verified caller identity. Set by the identity
// middleware; credential verification happens upstream of this service.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.ActorIDKey, actorID)
}

func UseActorID(ctx context.Context) (uuid.UUID, error) {
	v := ctx.Value(constants.ActorIDKey)
	if v == nil {
		return uuid.Nil, ErrNoActorID
	}
	return v.(uuid.UUID), nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to a plain one
// so services never need a nil check.
func UseLogger(ctx context.Context) *logrus.Entry {
	v := ctx.Value(constants.LoggerKey)
	if v == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return v.(*logrus.Entry)
}
