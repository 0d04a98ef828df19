package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

type Session struct {
	svc      *core.SessionService
	projects *core.ProjectService
}

func NewSession(svc *core.SessionService, projects *core.ProjectService) *Session {
	return &Session{svc: svc, projects: projects}
}

func (h *Session) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateSession
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	sess := &model.Session{
		PhaseID:  req.PhaseID,
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Type:     req.Type,
		Location: req.Location,
	}
	if err := h.svc.Create(r.Context(), project, sess, req.Attendees); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Session) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID, err := request.RequireID(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateSession
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	sess, err := h.svc.Update(r.Context(), project, sessionID, core.SessionUpdate{
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Type:     req.Type,
		Location: req.Location,
		PhaseID:  req.PhaseID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, sess)
}

func (h *Session) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID, err := request.RequireID(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	if err := h.svc.Delete(r.Context(), project, sessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
