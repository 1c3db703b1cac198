package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	directoryservices "github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/presentation/mappers"
	"github.com/vestaclub/vesta/modules/finance/presentation/viewmodels"
	"github.com/vestaclub/vesta/modules/finance/services"
	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/httpapi"
	"github.com/vestaclub/vesta/pkg/middleware"
)

// ScheduleAPIController exposes the pull-based checks over HTTP for the
// external scheduler. Admin only: the answers enumerate other people's
// investments.
type ScheduleAPIController struct {
	app       application.Application
	schedule  *services.ScheduleService
	directory *directoryservices.DirectoryService
	clock     clockwork.Clock
	basePath  string
}

func NewScheduleAPIController(app application.Application, clock clockwork.Clock) application.Controller {
	return &ScheduleAPIController{
		app:       app,
		schedule:  app.Service(services.ScheduleService{}).(*services.ScheduleService),
		directory: app.Service(directoryservices.DirectoryService{}).(*directoryservices.DirectoryService),
		clock:     clock,
		basePath:  "/finance/api/checks",
	}
}

func (c *ScheduleAPIController) Key() string {
	return c.basePath
}

func (c *ScheduleAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireActorID())
	router.HandleFunc("/renewal-window", c.RenewalWindow).Methods(http.MethodGet)
	router.HandleFunc("/accrual-gate", c.AccrualGate).Methods(http.MethodGet)
	router.HandleFunc("/payout-day", c.PayoutDay).Methods(http.MethodGet)
}

func (c *ScheduleAPIController) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actorID, err := composables.UseActorID(r.Context())
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_NO_ACTOR", "no verified actor", nil)
		return false
	}
	caller, err := c.directory.GetByID(r.Context(), actorID)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusUnauthorized, "AUTH_UNKNOWN_ACTOR", "unknown actor", nil)
			return false
		}
		writeServiceError(w, r, err)
		return false
	}
	if caller.Tier() != actor.TierAdmin {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusForbidden, "FINANCE_ADMIN_ONLY", "only administrators run the checks", nil)
		return false
	}
	return true
}

// now parses the optional ?now= override used to replay a check for a
// past instant.
func (c *ScheduleAPIController) now(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("now"))
	if v == "" {
		return c.clock.Now(), true
	}
	parsed, err := time.Parse(time.DateOnly, v)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, v)
	}
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_BAD_NOW", "now must be YYYY-MM-DD or RFC 3339", nil)
		return time.Time{}, false
	}
	return parsed, true
}

func (c *ScheduleAPIController) RenewalWindow(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w, r) {
		return
	}
	now, ok := c.now(w, r)
	if !ok {
		return
	}
	due, err := c.schedule.CheckRenewalWindow(r.Context(), now)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, map[string]any{
		"as_of": now.Format(time.RFC3339),
		"items": investmentViewModels(due, now),
	})
}

func (c *ScheduleAPIController) AccrualGate(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w, r) {
		return
	}
	now, ok := c.now(w, r)
	if !ok {
		return
	}
	crossed, err := c.schedule.CheckAccrualGateCrossed(r.Context(), now)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, map[string]any{
		"as_of": now.Format(time.RFC3339),
		"items": investmentViewModels(crossed, now),
	})
}

func (c *ScheduleAPIController) PayoutDay(w http.ResponseWriter, r *http.Request) {
	if !c.requireAdmin(w, r) {
		return
	}
	now, ok := c.now(w, r)
	if !ok {
		return
	}
	result, err := c.schedule.CheckFixedPayoutDay(r.Context(), now)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, map[string]any{
		"as_of":         now.Format(time.RFC3339),
		"is_payout_day": result.IsPayoutDay,
		"items":         investmentViewModels(result.Investments, now),
	})
}

func investmentViewModels(items []investment.Investment, now time.Time) []viewmodels.Investment {
	out := make([]viewmodels.Investment, 0, len(items))
	for _, inv := range items {
		out = append(out, mappers.InvestmentToViewModel(inv, now))
	}
	return out
}
