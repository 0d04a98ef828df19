package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

type Phase struct {
	svc      *core.PhaseService
	projects *core.ProjectService
}

func NewPhase(svc *core.PhaseService, projects *core.ProjectService) *Phase {
	return &Phase{svc: svc, projects: projects}
}

func (h *Phase) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreatePhase
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	phase := &model.Phase{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Order:       req.Order,
	}
	if err := h.svc.Create(r.Context(), project, phase); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, phase)
}

func (h *Phase) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	phaseID, err := request.RequireID(chi.URLParam(r, "phaseID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdatePhase
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	phase, err := h.svc.Update(r.Context(), project, phaseID, core.PhaseUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Order:       req.Order,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, phase)
}

func (h *Phase) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	phaseID, err := request.RequireID(chi.URLParam(r, "phaseID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	if err := h.svc.Delete(r.Context(), project, phaseID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
