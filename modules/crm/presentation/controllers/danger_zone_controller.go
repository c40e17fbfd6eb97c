package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/httpapi"
	"github.com/renovaplan/renova/pkg/middleware"
)

type DangerZoneController struct {
	app               application.Application
	dangerZoneService *services.DangerZoneService
	basePath          string
}

func NewDangerZoneController(app application.Application) application.Controller {
	return &DangerZoneController{
		app:               app,
		dangerZoneService: app.Service(services.DangerZoneService{}).(*services.DangerZoneService),
		basePath:          "/api/danger-zone",
	}
}

func (c *DangerZoneController) Key() string {
	return c.basePath
}

func (c *DangerZoneController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.WithTransaction())

	router.HandleFunc("/clear", c.ClearAll).Methods(http.MethodPost)
}

// ClearAll wipes every record. The "confirm" query parameter must be the
// literal string "yes" so nobody clears production with a stray curl.
func (c *DangerZoneController) ClearAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "yes" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "CONFIRMATION_REQUIRED", `pass confirm=yes to clear all data`, nil)
		return
	}

	if err := c.dangerZoneService.ClearAll(r.Context()); err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
