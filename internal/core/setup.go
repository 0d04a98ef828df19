package core

import (
	"context"
	"fmt"

	"github.com/plainvanilla/portal/internal/model"
)

// SetupSelection names pre-existing Microsoft 365 resources to attach a
// project to. All fields are optional.
type SetupSelection struct {
	SiteID  string `json:"siteId"`
	GroupID string `json:"groupId"`
	TeamID  string `json:"teamId"`
}

// SetupResults reports the per-resource outcome of SetupSelected.
type SetupResults struct {
	SharePoint *SetupSharePointResult `json:"sharepoint"`
	Planner    *SetupPlannerResult    `json:"planner"`
	Teams      *SetupTeamsResult      `json:"teams"`
	Errors     []string               `json:"errors"`
}

type SetupSharePointResult struct {
	SiteID    string `json:"siteId"`
	FolderID  string `json:"folderId"`
	FolderURL string `json:"folderUrl"`
}

type SetupPlannerResult struct {
	GroupID   string `json:"groupId"`
	PlanID    string `json:"planId"`
	PlanTitle string `json:"planTitle"`
}

type SetupTeamsResult struct {
	TeamID      string `json:"teamId"`
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
}

// SetupSelected attaches the project to existing Microsoft 365 resources:
// a folder pair on a SharePoint site, a Planner plan on a group, a channel
// with a kickoff message on a team. Each resource is skipped when the
// project already references one of its kind, failures are recorded per
// resource, and only the references of successful steps are persisted,
// merged onto fields that are still unset.
func (s *ProjectService) SetupSelected(ctx context.Context, projectID string, sel SetupSelection) (*model.Project, *SetupResults, error) {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	results := &SetupResults{Errors: []string{}}
	var refs ResourceRefs
	dirty := false

	if sel.SiteID != "" && project.SharePoint == nil {
		folder, err := s.setupFolders(ctx, sel.SiteID, project)
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("SharePoint: %s", err))
		} else {
			refs.SharePointSiteID = &sel.SiteID
			refs.SharePointFolderID = &folder.FolderID
			refs.SharePointFolderURL = &folder.FolderURL
			results.SharePoint = folder
			dirty = true
		}
	}

	if sel.GroupID != "" && project.Planner == nil {
		plan, err := s.gc.CreatePlan(ctx, sel.GroupID, fmt.Sprintf("%s - %s", project.Client, project.Name))
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("Planner: %s", err))
		} else {
			refs.PlannerGroupID = &sel.GroupID
			refs.PlannerPlanID = &plan.ID
			results.Planner = &SetupPlannerResult{GroupID: sel.GroupID, PlanID: plan.ID, PlanTitle: plan.Title}
			dirty = true
		}
	}

	if sel.TeamID != "" && project.Teams == nil {
		channel, err := s.gc.CreateChannel(ctx, sel.TeamID,
			fmt.Sprintf("%s - %s", project.Client, project.Name), project.Description)
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("Teams: %s", err))
		} else {
			kickoff := fmt.Sprintf("🚀 <b>Proyecto iniciado:</b> %s<br>Cliente: %s", project.Name, project.Client)
			if err := s.gc.SendChannelMessage(ctx, sel.TeamID, channel.ID, kickoff); err != nil {
				s.logger.Warn().Err(err).Str("project_id", projectID).Msg("kickoff message failed")
			}
			refs.TeamsTeamID = &sel.TeamID
			refs.TeamsChannelID = &channel.ID
			refs.TeamsChannelURL = &channel.WebURL
			results.Teams = &SetupTeamsResult{TeamID: sel.TeamID, ChannelID: channel.ID, ChannelName: channel.DisplayName}
			dirty = true
		}
	}

	if dirty {
		if err := s.AttachResources(ctx, projectID, refs); err != nil {
			return nil, nil, err
		}
		project, err = s.GetByID(ctx, projectID)
		if err != nil {
			return nil, nil, err
		}
	}

	return project, results, nil
}

// setupFolders creates the client folder in the site's drive root and the
// project folder inside it, returning the project folder references.
func (s *ProjectService) setupFolders(ctx context.Context, siteID string, project *model.Project) (*SetupSharePointResult, error) {
	clientFolder, err := s.gc.CreateFolder(ctx, siteID, "root", project.Client)
	if err != nil {
		return nil, err
	}
	projectFolder, err := s.gc.CreateFolder(ctx, siteID, clientFolder.ID, project.Name)
	if err != nil {
		return nil, err
	}
	return &SetupSharePointResult{SiteID: siteID, FolderID: projectFolder.ID, FolderURL: projectFolder.WebURL}, nil
}
