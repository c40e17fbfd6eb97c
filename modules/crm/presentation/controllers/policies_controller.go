package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/presentation/mappers"
	"github.com/renovaplan/renova/modules/crm/presentation/viewmodels"
	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/httpapi"
	"github.com/renovaplan/renova/pkg/middleware"
)

type PoliciesController struct {
	app           application.Application
	policyService *services.PolicyService
	basePath      string
}

func NewPoliciesController(app application.Application) application.Controller {
	return &PoliciesController{
		app:           app,
		policyService: app.Service(services.PolicyService{}).(*services.PolicyService),
		basePath:      "/api/policies",
	}
}

func (c *PoliciesController) Key() string {
	return c.basePath
}

func (c *PoliciesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *PoliciesController) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)
	params := &policy.FindParams{
		Limit:  limit,
		Offset: offset,
	}

	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		parsed := policy.Status(status)
		if !parsed.IsValid() {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_STATUS", "status must be active, renewed or lost", nil)
			return
		}
		params.Status = parsed
	}
	if clientID := q.Get("client_id"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "client_id must be a UUID", nil)
			return
		}
		params.ClientID = id
	}
	if v := q.Get("due_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "due_from must be YYYY-MM-DD", nil)
			return
		}
		params.DueFrom = &t
	}
	if v := q.Get("due_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "due_to must be YYYY-MM-DD", nil)
			return
		}
		params.DueTo = &t
	}

	items, total, err := c.policyService.GetPaginated(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.Paginated[viewmodels.Policy]{
		Data:  mappers.PoliciesToViewModels(items),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *PoliciesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	entity, err := c.policyService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "policy not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PolicyToViewModel(entity))
}

func (c *PoliciesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &policy.CreateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	entity, err := dto.ToEntity()
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	created, err := c.policyService.Create(r.Context(), entity)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.PolicyToViewModel(created))
}

func (c *PoliciesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	dto := &policy.UpdateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	existing, err := c.policyService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "policy not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	entity, err := dto.Apply(existing)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	updated, err := c.policyService.Update(r.Context(), entity)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.PolicyToViewModel(updated))
}

func (c *PoliciesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	if err := c.policyService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "policy not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
