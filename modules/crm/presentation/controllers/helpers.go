package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/renovaplan/renova/pkg/configuration"
	"github.com/renovaplan/renova/pkg/httpapi"
	"github.com/renovaplan/renova/pkg/serrors"
)

// pagination resolves page/limit query params against the configured
// defaults. Pages are 1-based.
func pagination(r *http.Request) (page, limit, offset int) {
	conf := configuration.Use()

	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	limit = conf.PageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}

	return page, limit, (page - 1) * limit
}

func parseMonth(v string) (int, error) {
	month, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if month < 1 || month > 12 {
		return 0, strconv.ErrRange
	}
	return month, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", nil)
		return false
	}
	return true
}

func writeValidationErrors(w http.ResponseWriter, errs serrors.ValidationErrors) {
	_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", errs.First(), errs)
}
