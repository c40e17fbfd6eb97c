package controllers

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/renovaplan/renova/modules/crm/importer"
	"github.com/renovaplan/renova/modules/crm/services"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/configuration"
	"github.com/renovaplan/renova/pkg/httpapi"
)

type ImportController struct {
	app           application.Application
	importService *services.ImportService
	basePath      string
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		app:           app,
		importService: app.Service(services.ImportService{}).(*services.ImportService),
		basePath:      "/api/import",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("", c.Upload).Methods(http.MethodPost)
}

// Upload accepts a multipart form with a "file" field holding the workbook.
// The pipeline itself decides whether the content is usable.
func (c *ImportController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	r.Body = http.MaxBytesReader(w, r.Body, conf.MaxUploadSize)

	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "file exceeds the upload limit", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MISSING_FILE", `multipart field "file" is required`, nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UNREADABLE_UPLOAD", err.Error(), nil)
		return
	}

	summary, err := c.importService.Import(r.Context(), data)
	if err != nil {
		writeImportError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, summary)
}

func writeImportError(w http.ResponseWriter, err error) {
	var impErr *importer.Error
	if !errors.As(err, &impErr) {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	status := http.StatusUnprocessableEntity
	switch impErr.Kind {
	case importer.ErrFileUnreadable:
		status = http.StatusBadRequest
	case importer.ErrAllDuplicates:
		status = http.StatusConflict
	case importer.ErrWriteFailed:
		status = http.StatusInternalServerError
	}
	_ = httpapi.WriteError(w, status, string(impErr.Kind), impErr.Message, nil)
}
