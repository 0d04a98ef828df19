package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
)

type ClientAccess struct {
	svc      *core.ClientAccessService
	projects *core.ProjectService
}

func NewClientAccess(svc *core.ClientAccessService, projects *core.ProjectService) *ClientAccess {
	return &ClientAccess{svc: svc, projects: projects}
}

func (h *ClientAccess) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	access, err := h.svc.List(r.Context(), projectID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, access)
}

// Grant creates or updates a portal user and gives it access to the
// project. The response carries the plain password exactly once.
func (h *ClientAccess) Grant(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.GrantAccess
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	result, err := h.svc.Grant(r.Context(), project, req.Email, req.Name, req.Permissions, req.SendEmail)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, result)
}

func (h *ClientAccess) Revoke(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := request.RequireID(chi.URLParam(r, "userID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Revoke(r.Context(), projectID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

// Resend regenerates the user's password and emails the new credentials.
func (h *ClientAccess) Resend(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := request.RequireID(chi.URLParam(r, "userID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	password, err := h.svc.Resend(r.Context(), project, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"password": password})
}
