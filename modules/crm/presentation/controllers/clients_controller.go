package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/presentation/mappers"
	"github.com/renovaplan/renova/modules/crm/presentation/viewmodels"
	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/httpapi"
	"github.com/renovaplan/renova/pkg/middleware"
)

type ClientsController struct {
	app           application.Application
	clientService *services.ClientService
	basePath      string
}

func NewClientsController(app application.Application) application.Controller {
	return &ClientsController{
		app:           app,
		clientService: app.Service(services.ClientService{}).(*services.ClientService),
		basePath:      "/api/clients",
	}
}

func (c *ClientsController) Key() string {
	return c.basePath
}

func (c *ClientsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/birthdays", c.Birthdays).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *ClientsController) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)
	params := &client.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.clientService.GetPaginated(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.Paginated[viewmodels.Client]{
		Data:  mappers.ClientsToViewModels(items),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *ClientsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	entity, err := c.clientService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "client not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ClientToViewModel(entity))
}

func (c *ClientsController) Birthdays(w http.ResponseWriter, r *http.Request) {
	month := int(time.Now().Month())
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := parseMonth(v)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_MONTH", "month must be 1-12", nil)
			return
		}
		month = parsed
	}

	items, err := c.clientService.GetByBirthdayMonth(r.Context(), time.Month(month))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ClientsToViewModels(items))
}

func (c *ClientsController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &client.CreateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	created, err := c.clientService.Create(r.Context(), dto.ToEntity())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.ClientToViewModel(created))
}

func (c *ClientsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	dto := &client.UpdateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	existing, err := c.clientService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "client not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	updated, err := c.clientService.Update(r.Context(), dto.Apply(existing))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ClientToViewModel(updated))
}

func (c *ClientsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a UUID", nil)
		return
	}

	if err := c.clientService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "client not found", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
