package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/configuration"
	"github.com/vestaclub/vesta/pkg/httpapi"
)

// ProvideActorID reads the verified caller identity from the configured
// header. Session verification is the identity proxy's job; an absent or
// malformed header means the request has no identity.
func ProvideActorID() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(conf.ActorIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			actorID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_INVALID_ACTOR", "invalid actor identity", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithActorID(r.Context(), actorID)))
		})
	}
}

// RequireActorID rejects requests that carry no verified identity.
func RequireActorID() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseActorID(r.Context()); err != nil {
				_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_NO_ACTOR", "no verified actor", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
