package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/directory/presentation/mappers"
	"github.com/vestaclub/vesta/modules/directory/presentation/viewmodels"
	"github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/httpapi"
	"github.com/vestaclub/vesta/pkg/middleware"
	"github.com/vestaclub/vesta/pkg/serrors"
)

type ActorAPIController struct {
	app       application.Application
	directory *services.DirectoryService
	access    *services.AccessService
	basePath  string
}

func NewActorAPIController(app application.Application) application.Controller {
	return &ActorAPIController{
		app:       app,
		directory: app.Service(services.DirectoryService{}).(*services.DirectoryService),
		access:    app.Service(services.AccessService{}).(*services.AccessService),
		basePath:  "/directory/api",
	}
}

func (c *ActorAPIController) Key() string {
	return c.basePath
}

func (c *ActorAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireActorID())
	router.HandleFunc("/actors/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/actors", c.List).Methods(http.MethodGet)
	router.HandleFunc("/access-check", c.AccessCheck).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.RequireActorID(), middleware.WithTransaction())
	writeRouter.HandleFunc("/actors", c.Create).Methods(http.MethodPost)
}

func (c *ActorAPIController) caller(w http.ResponseWriter, r *http.Request) (actor.Actor, bool) {
	actorID, err := composables.UseActorID(r.Context())
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_NO_ACTOR", "no verified actor", nil)
		return actor.Actor{}, false
	}
	caller, err := c.directory.GetByID(r.Context(), actorID)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_UNKNOWN_ACTOR", "unknown actor", nil)
			return actor.Actor{}, false
		}
		composables.UseLogger(r.Context()).WithError(err).Error("failed to load caller profile")
		_ = httpapi.WriteErrorEnvelope(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return actor.Actor{}, false
	}
	return caller, true
}

func (c *ActorAPIController) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := c.caller(w, r)
	if !ok {
		return
	}
	if caller.Tier() != actor.TierAdmin {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusForbidden, "DIRECTORY_FORBIDDEN", "only administrators manage the directory", nil)
		return
	}

	var dto actor.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "DIRECTORY_INVALID_JSON", "invalid json", nil)
		return
	}
	if fieldErrs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "DIRECTORY_VALIDATION_FAILED", "validation failed", fieldErrs)
		return
	}

	created, err := c.directory.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, actor.ErrEmailTaken) {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusConflict, "DIRECTORY_EMAIL_TAKEN", "email already registered", nil)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.ActorToViewModel(created))
}

func (c *ActorAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := c.caller(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "DIRECTORY_BAD_ID", "invalid actor id", nil)
		return
	}

	allowed, err := c.access.CanAccess(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !allowed {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusForbidden, "DIRECTORY_ACCESS_DENIED", "access denied", nil)
		return
	}

	found, err := c.directory.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusNotFound, "DIRECTORY_NOT_FOUND", "actor not found", nil)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.ActorToViewModel(found))
}

func (c *ActorAPIController) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := c.caller(w, r)
	if !ok {
		return
	}
	if caller.Tier() != actor.TierAdmin {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusForbidden, "DIRECTORY_FORBIDDEN", "only administrators list the directory", nil)
		return
	}

	params := &actor.FindParams{
		Q: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("tier")); v != "" {
		tier, err := actor.ParseTier(v)
		if err != nil {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "DIRECTORY_UNKNOWN_TIER", "unknown tier", nil)
			return
		}
		params.Tier = tier
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}

	items, total, err := c.directory.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]viewmodels.Actor, 0, len(items))
	for _, a := range items {
		out = append(out, mappers.ActorToViewModel(a))
	}
	_ = httpapi.WriteSuccess(w, map[string]any{
		"items": out,
		"total": total,
	})
}

// AccessCheck exposes resolveAccess for the presentation layer: may the
// caller act on records owned by owner_id.
func (c *ActorAPIController) AccessCheck(w http.ResponseWriter, r *http.Request) {
	caller, ok := c.caller(w, r)
	if !ok {
		return
	}

	ownerID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("owner_id")))
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "DIRECTORY_BAD_OWNER_ID", "invalid owner id", nil)
		return
	}

	allowed, err := c.access.CanAccess(r.Context(), caller, ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, map[string]any{"allowed": allowed})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpapi.StatusFor(err)
	if status == http.StatusInternalServerError {
		composables.UseLogger(r.Context()).WithError(err).Error("directory api failure")
		_ = httpapi.WriteErrorEnvelope(w, status, "INTERNAL", "internal error", nil)
		return
	}
	_ = httpapi.WriteErrorEnvelope(w, status, serviceErrorCode(err), serrors.MessageOf(err), nil)
}
