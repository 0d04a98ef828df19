package request

type AddOn struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price"`
}

type CreateProject struct {
	Name        string  `json:"name" validate:"required"`
	Client      string  `json:"client" validate:"required"`
	Slug        string  `json:"slug" validate:"omitempty,slug"`
	Description string  `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=active paused completed archived"`
	BasePrice   float64 `json:"basePrice"`
	VATExempt   bool    `json:"vatExempt"`
	VATRate     *int    `json:"vatRate"`
	AddOns      []AddOn `json:"addOns" validate:"omitempty,dive"`
	// AutoSetup provisions the full Microsoft 365 resource set right
	// after the project is created.
	AutoSetup bool `json:"autoSetup"`
}

type UpdateProject struct {
	Name        *string  `json:"name"`
	Client      *string  `json:"client"`
	Slug        *string  `json:"slug" validate:"omitempty,slug"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active paused completed archived"`
	BasePrice   *float64 `json:"basePrice"`
	VATExempt   *bool    `json:"vatExempt"`
	VATRate     *int     `json:"vatRate"`
	AddOns      *[]AddOn `json:"addOns" validate:"omitempty,dive"`
}

// SetupProject names existing Microsoft 365 resources to attach the
// project to. Absent fields skip the matching resource.
type SetupProject struct {
	SiteID  string `json:"siteId"`
	GroupID string `json:"groupId"`
	TeamID  string `json:"teamId"`
}

// AttachResources merges already-known resource identifiers onto the
// project without touching Microsoft 365.
type AttachResources struct {
	SharePointSiteID    *string `json:"sharepointSiteId"`
	SharePointFolderID  *string `json:"sharepointFolderId"`
	SharePointFolderURL *string `json:"sharepointFolderUrl"`
	TeamsTeamID         *string `json:"teamsTeamId"`
	TeamsChannelID      *string `json:"teamsChannelId"`
	TeamsChannelURL     *string `json:"teamsChannelUrl"`
	PlannerGroupID      *string `json:"plannerGroupId"`
	PlannerPlanID       *string `json:"plannerPlanId"`
}
