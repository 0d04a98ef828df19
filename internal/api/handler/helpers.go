package handler

import (
	"errors"
	"net/http"

	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
	"github.com/plainvanilla/portal/internal/provision"
)

// writeServiceError maps core errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *provision.ValidationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrAlreadyProvisioned):
		response.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		response.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, core.ErrForbidden):
		response.WriteError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &verr):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// loadProject resolves the projectID route param. Returns nil after writing
// the error response when the project cannot be loaded.
func loadProject(w http.ResponseWriter, r *http.Request, svc *core.ProjectService, projectID string) *model.Project {
	project, err := svc.GetByID(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return nil
	}
	return project
}
