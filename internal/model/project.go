package model

import "time"

type Project struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Client          string               `json:"client"`
	Slug            string               `json:"slug"`
	Description     string               `json:"description"`
	Status          string               `json:"status"`
	SharePoint      *SharePointResources `json:"sharepoint"`
	Teams           *TeamsResources      `json:"teams"`
	Planner         *PlannerResources    `json:"planner"`
	ProvisionStatus string               `json:"provision_status"`
	ProvisionError  *string              `json:"provision_error,omitempty"`
	Pricing         Pricing              `json:"pricing"`
	AddOns          []AddOn              `json:"addOns"`
	Phases          []Phase              `json:"phases,omitempty"`
	Sessions        []Session            `json:"sessions,omitempty"`
	Tasks           []Task               `json:"tasks,omitempty"`
	CreatedBy       *string              `json:"createdBy"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// SharePointResources is non-nil once a SharePoint site has been linked
// to the project.
type SharePointResources struct {
	SiteID    string  `json:"siteId"`
	FolderID  *string `json:"folderId"`
	FolderURL *string `json:"folderUrl"`
}

// TeamsResources is non-nil once a team has been linked to the project.
type TeamsResources struct {
	TeamID     string  `json:"teamId"`
	ChannelID  *string `json:"channelId"`
	ChannelURL *string `json:"channelUrl"`
}

// PlannerResources is non-nil once a plan has been linked to the project.
type PlannerResources struct {
	GroupID string `json:"groupId"`
	PlanID  string `json:"planId"`
}

type Pricing struct {
	BasePrice float64 `json:"basePrice"`
	VATExempt bool    `json:"vatExempt"`
	VATRate   int     `json:"vatRate"`
}

type AddOn struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
