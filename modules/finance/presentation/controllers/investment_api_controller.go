package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/renewal"
	"github.com/vestaclub/vesta/modules/finance/presentation/mappers"
	"github.com/vestaclub/vesta/modules/finance/presentation/viewmodels"
	"github.com/vestaclub/vesta/modules/finance/services"
	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/httpapi"
	"github.com/vestaclub/vesta/pkg/middleware"
	"github.com/vestaclub/vesta/pkg/serrors"
)

type InvestmentAPIController struct {
	app         application.Application
	investments *services.InvestmentService
	clock       clockwork.Clock
	basePath    string
}

func NewInvestmentAPIController(app application.Application, clock clockwork.Clock) application.Controller {
	return &InvestmentAPIController{
		app:         app,
		investments: app.Service(services.InvestmentService{}).(*services.InvestmentService),
		clock:       clock,
		basePath:    "/finance/api",
	}
}

func (c *InvestmentAPIController) Key() string {
	return c.basePath
}

func (c *InvestmentAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireActorID())
	router.HandleFunc("/investments/{id}/dividends", c.Dividends).Methods(http.MethodGet)
	router.HandleFunc("/investments/{id}/history", c.History).Methods(http.MethodGet)
	router.HandleFunc("/investments/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/investments", c.List).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.RequireActorID(), middleware.WithTransaction())
	writeRouter.HandleFunc("/investments", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/investments/{id}/approve", c.Approve).Methods(http.MethodPost)
	writeRouter.HandleFunc("/investments/{id}/withdraw", c.Withdraw).Methods(http.MethodPost)
	writeRouter.HandleFunc("/investments/{id}/renew", c.Renew).Methods(http.MethodPost)
}

func (c *InvestmentAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto investment.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_INVALID_JSON", "invalid json", nil)
		return
	}
	if fieldErrs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_VALIDATION_FAILED", "validation failed", fieldErrs)
		return
	}

	created, err := c.investments.Create(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.InvestmentToViewModel(created, c.clock.Now()))
}

func (c *InvestmentAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := c.investments.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.InvestmentToViewModel(found, c.clock.Now()))
}

func (c *InvestmentAPIController) List(w http.ResponseWriter, r *http.Request) {
	params := &investment.FindParams{}
	if v := strings.TrimSpace(r.URL.Query().Get("owner_id")); v != "" {
		ownerID, err := uuid.Parse(v)
		if err != nil {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_BAD_OWNER_ID", "invalid owner id", nil)
			return
		}
		params.OwnerID = ownerID
	}
	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		params.Status = investment.Status(v)
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

	items, total, err := c.investments.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := c.clock.Now()
	out := make([]viewmodels.Investment, 0, len(items))
	for _, inv := range items {
		out = append(out, mappers.InvestmentToViewModel(inv, now))
	}
	_ = httpapi.WriteSuccess(w, map[string]any{
		"items": out,
		"total": total,
	})
}

type approveRequest struct {
	ReceiptRef   string   `json:"receipt_ref"`
	PaymentDate  string   `json:"payment_date"`
	ConditionIDs []string `json:"condition_ids"`
}

func (c *InvestmentAPIController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_INVALID_JSON", "invalid json", nil)
		return
	}
	var paymentDate time.Time
	if v := strings.TrimSpace(req.PaymentDate); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, v)
		}
		if err != nil {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_BAD_PAYMENT_DATE", "payment date must be YYYY-MM-DD or RFC 3339", nil)
			return
		}
		paymentDate = parsed
	}

	approved, err := c.investments.Approve(r.Context(), id, strings.TrimSpace(req.ReceiptRef), paymentDate, req.ConditionIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.InvestmentToViewModel(approved, c.clock.Now()))
}

func (c *InvestmentAPIController) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	withdrawn, err := c.investments.Withdraw(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.InvestmentToViewModel(withdrawn, c.clock.Now()))
}

type renewRequest struct {
	Action              string   `json:"action"`
	NewCommitmentPeriod *int     `json:"new_commitment_period"`
	NewLiquidityClass   *string  `json:"new_liquidity_class"`
	AdditionalAmount    *string  `json:"additional_amount"`
	ConditionIDs        []string `json:"condition_ids"`
}

func (c *InvestmentAPIController) Renew(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_INVALID_JSON", "invalid json", nil)
		return
	}
	action, err := renewal.ParseAction(strings.TrimSpace(req.Action))
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_UNKNOWN_ACTION", "unknown renewal action", nil)
		return
	}

	result, err := c.investments.Renew(r.Context(), id, action, services.RenewParams{
		NewCommitmentPeriod: req.NewCommitmentPeriod,
		NewLiquidityClass:   req.NewLiquidityClass,
		AdditionalAmount:    req.AdditionalAmount,
		ConditionIDs:        req.ConditionIDs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	vm := mappers.RenewResultToViewModel(result, c.clock.Now())
	if len(result.Warnings) > 0 {
		_ = httpapi.WritePartialSuccess(w, vm, result.Warnings)
		return
	}
	_ = httpapi.WriteSuccess(w, vm)
}

func (c *InvestmentAPIController) Dividends(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var asOf time.Time
	if v := strings.TrimSpace(r.URL.Query().Get("as_of")); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, v)
		}
		if err != nil {
			_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_BAD_AS_OF", "as_of must be YYYY-MM-DD or RFC 3339", nil)
			return
		}
		asOf = parsed
	}

	report, err := c.investments.AccruedDividends(r.Context(), id, asOf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteSuccess(w, mappers.DividendReportToViewModel(report))
}

func (c *InvestmentAPIController) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	records, err := c.investments.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]viewmodels.RenewalRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, mappers.RenewalRecordToViewModel(rec))
	}
	_ = httpapi.WriteSuccess(w, out)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusBadRequest, "FINANCE_BAD_ID", "invalid investment id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpapi.StatusFor(err)
	if status == http.StatusInternalServerError {
		composables.UseLogger(r.Context()).WithError(err).Error("finance api failure")
		_ = httpapi.WriteErrorEnvelope(w, status, "INTERNAL", "internal error", nil)
		return
	}
	_ = httpapi.WriteErrorEnvelope(w, status, serrors.CodeOf(err), serrors.MessageOf(err), nil)
}
