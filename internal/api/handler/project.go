package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plainvanilla/portal/internal/api/request"
	"github.com/plainvanilla/portal/internal/api/response"
	"github.com/plainvanilla/portal/internal/core"
	"github.com/plainvanilla/portal/internal/model"
)

type Project struct {
	svc *core.ProjectService
}

func NewProject(svc *core.ProjectService) *Project {
	return &Project{svc: svc}
}

// List returns all projects with their add-ons.
func (h *Project) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, projects)
}

func (h *Project) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProject
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := &model.Project{
		Name:        req.Name,
		Client:      req.Client,
		Slug:        req.Slug,
		Description: req.Description,
		Status:      req.Status,
		Pricing: model.Pricing{
			BasePrice: req.BasePrice,
			VATExempt: req.VATExempt,
		},
		AddOns: toModelAddOns(req.AddOns),
	}
	if req.VATRate != nil {
		project.Pricing.VATRate = *req.VATRate
	}

	if err := h.svc.Create(r.Context(), project, req.AutoSetup); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, project)
}

func (h *Project) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, project)
}

func (h *Project) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateProject
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := core.ProjectUpdate{
		Name:        req.Name,
		Client:      req.Client,
		Slug:        req.Slug,
		Description: req.Description,
		Status:      req.Status,
		BasePrice:   req.BasePrice,
		VATExempt:   req.VATExempt,
		VATRate:     req.VATRate,
	}
	if req.AddOns != nil {
		addOns := toModelAddOns(*req.AddOns)
		upd.AddOns = &addOns
	}

	project, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, project)
}

func (h *Project) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Setup attaches the project to existing Microsoft 365 resources, creating
// folders, a plan, and a channel on them. Partial failures come back in the
// results, not as an error status.
func (h *Project) Setup(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SetupProject
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, results, err := h.svc.SetupSelected(r.Context(), id, core.SetupSelection{
		SiteID:  req.SiteID,
		GroupID: req.GroupID,
		TeamID:  req.TeamID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"project": project,
		"results": results,
	})
}

// Provision starts the full Microsoft 365 provisioning workflow.
func (h *Project) Provision(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.StartProvisioning(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"provision_status": model.ProvisionStatusPending,
	})
}

// AttachResources merges known Microsoft 365 identifiers onto the project
// record without calling Graph.
func (h *Project) AttachResources(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "projectID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.AttachResources
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.AttachResources(r.Context(), id, core.ResourceRefs{
		SharePointSiteID:    req.SharePointSiteID,
		SharePointFolderID:  req.SharePointFolderID,
		SharePointFolderURL: req.SharePointFolderURL,
		TeamsTeamID:         req.TeamsTeamID,
		TeamsChannelID:      req.TeamsChannelID,
		TeamsChannelURL:     req.TeamsChannelURL,
		PlannerGroupID:      req.PlannerGroupID,
		PlannerPlanID:       req.PlannerPlanID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	project, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, project)
}

func toModelAddOns(addOns []request.AddOn) []model.AddOn {
	out := make([]model.AddOn, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, model.AddOn{Name: a.Name, Price: a.Price})
	}
	return out
}
