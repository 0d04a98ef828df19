package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

type Task struct {
	svc      *core.TaskService
	projects *core.ProjectService
}

func NewTask(svc *core.TaskService, projects *core.ProjectService) *Task {
	return &Task{svc: svc, projects: projects}
}

func (h *Task) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.CreateTask
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	task := &model.Task{
		PhaseID:     req.PhaseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Visibility:  req.Visibility,
		Assignees:   toModelAssignees(req.Assignees),
	}
	if err := h.svc.Create(r.Context(), project, task); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, task)
}

func (h *Task) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	taskID, err := request.RequireID(chi.URLParam(r, "taskID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateTask
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := loadProject(w, r, h.projects, projectID)
	if project == nil {
		return
	}

	upd := core.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		PhaseID:     req.PhaseID,
		Priority:    req.Priority,
		Status:      req.Status,
		Visibility:  req.Visibility,
	}
	if req.Assignees != nil {
		assignees := toModelAssignees(*req.Assignees)
		upd.Assignees = &assignees
	}

	task, err := h.svc.Update(r.Context(), project, taskID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, task)
}

func (h *Task) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := request.RequireID(chi.URLParam(r, "taskID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), taskID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func toModelAssignees(assignees []request.TaskAssignee) []model.Assignee {
	out := make([]model.Assignee, 0, len(assignees))
	for _, a := range assignees {
		out = append(out, model.Assignee{Email: a.Email, Name: a.Name, Photo: a.Photo})
	}
	return out
}
