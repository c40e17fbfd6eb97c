package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/presentation/mappers"
	"github.com/renovaplan/renova/modules/crm/presentation/viewmodels"
	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/httpapi"
)

const (
	defaultDueSoonDays  = 30
	defaultBirthdayDays = 30
)

type DashboardController struct {
	app              application.Application
	dashboardService *services.DashboardService
	basePath         string
}

func NewDashboardController(app application.Application) application.Controller {
	return &DashboardController{
		app:              app,
		dashboardService: app.Service(services.DashboardService{}).(*services.DashboardService),
		basePath:         "/api/dashboard",
	}
}

func (c *DashboardController) Key() string {
	return c.basePath
}

func (c *DashboardController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/stats", c.Stats).Methods(http.MethodGet)
	router.HandleFunc("/birthdays", c.UpcomingBirthdays).Methods(http.MethodGet)
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	days := defaultDueSoonDays
	if v, err := strconv.Atoi(r.URL.Query().Get("due_soon_days")); err == nil && v > 0 {
		days = v
	}

	stats, err := c.dashboardService.Stats(r.Context(), time.Now(), days)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, stats)
}

func (c *DashboardController) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	days := defaultBirthdayDays
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		days = v
	}

	upcoming, err := c.dashboardService.UpcomingBirthdays(r.Context(), time.Now(), days)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	out := make([]viewmodels.UpcomingBirthday, 0, len(upcoming))
	for _, b := range upcoming {
		out = append(out, mappers.UpcomingBirthdayToViewModel(b))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}
