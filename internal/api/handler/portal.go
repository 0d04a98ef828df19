package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/plainvanilla/portal/internal/api/middleware"
	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

// Portal serves the client-facing API. Everything except Login runs
// behind the portal bearer token middleware.
type Portal struct {
	svc      *core.PortalService
	projects *core.ProjectService
	tasks    *core.TaskService
}

func NewPortal(svc *core.PortalService, projects *core.ProjectService, tasks *core.TaskService) *Portal {
	return &Portal{svc: svc, projects: projects, tasks: tasks}
}

func (h *Portal) Login(w http.ResponseWriter, r *http.Request) {
	var req request.PortalLogin
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password, req.Slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

// GetProject returns the client view of a project: internal tasks and
// pricing stripped out.
func (h *Portal) GetProject(w http.ResponseWriter, r *http.Request) {
	project, _ := h.authorizeProject(w, r)
	if project == nil {
		return
	}

	core.FilterForClient(project)
	response.WriteJSON(w, http.StatusOK, project)
}

// UpdateTaskStatus lets a client move one of their own tasks between
// status columns. Anything else about the task is off limits.
func (h *Portal) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	project, user := h.authorizeProject(w, r)
	if project == nil {
		return
	}

	taskID, err := request.RequireID(chi.URLParam(r, "taskID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateTaskStatus
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.Get(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if task.ProjectID != project.ID || task.Visibility != "public" {
		response.WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	if !core.CanUpdateTask(task, user) {
		response.WriteError(w, http.StatusForbidden, "task is not assigned to you")
		return
	}

	updated, err := h.tasks.Update(r.Context(), project, taskID, core.TaskUpdate{Status: &req.Status})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, updated)
}

func (h *Portal) ListMessages(w http.ResponseWriter, r *http.Request) {
	project, _ := h.authorizeProject(w, r)
	if project == nil {
		return
	}

	messages, err := h.svc.Messages(r.Context(), project.ID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, messages)
}

func (h *Portal) CreateMessage(w http.ResponseWriter, r *http.Request) {
	project, user := h.authorizeProject(w, r)
	if project == nil {
		return
	}

	var req request.CreateMessage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.svc.CreateMessage(r.Context(), project.ID, user.ID, req.Content)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusCreated, message)
}

// authorizeProject resolves the slug route param and checks the
// authenticated portal user was granted access to that project. Returns
// nils after writing the error response on failure.
func (h *Portal) authorizeProject(w http.ResponseWriter, r *http.Request) (*model.Project, *model.User) {
	user := mw.GetPortalUser(r.Context())
	if user == nil {
		response.WriteError(w, http.StatusUnauthorized, "not logged in")
		return nil, nil
	}

	slug, err := request.RequireID(chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, nil
	}

	project, err := h.projects.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return nil, nil
	}

	ok, err := h.svc.HasAccess(r.Context(), project.ID, user.ID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return nil, nil
	}
	if !ok {
		response.WriteError(w, http.StatusForbidden, "no access to this project")
		return nil, nil
	}
	return project, user
}
