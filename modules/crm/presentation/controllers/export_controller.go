package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/httpapi"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	app           application.Application
	exportService *services.ExportService
	basePath      string
}

func NewExportController(app application.Application) application.Controller {
	return &ExportController{
		app:           app,
		exportService: app.Service(services.ExportService{}).(*services.ExportService),
		basePath:      "/api/export",
	}
}

func (c *ExportController) Key() string {
	return c.basePath
}

func (c *ExportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/clients", c.Clients).Methods(http.MethodGet)
	router.HandleFunc("/policies", c.Policies).Methods(http.MethodGet)
}

func (c *ExportController) Clients(w http.ResponseWriter, r *http.Request) {
	data, err := c.exportService.ExportClients(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	writeWorkbook(w, "clientes", data)
}

func (c *ExportController) Policies(w http.ResponseWriter, r *http.Request) {
	data, err := c.exportService.ExportPolicies(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	writeWorkbook(w, "apolices", data)
}

func writeWorkbook(w http.ResponseWriter, prefix string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
