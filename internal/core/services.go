package core

import (
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/plainvanilla/portal/internal/config"
)

type Services struct {
	Project      *ProjectService
	Phase        *PhaseService
	Session      *SessionService
	Task         *TaskService
	ClientAccess *ClientAccessService
	Portal       *PortalService
	Dashboard    *DashboardService
	APIKey       *APIKeyService
}

func NewServices(db DB, tc temporalclient.Client, gc Graph, cfg *config.Config, logger zerolog.Logger) *Services {
	return &Services{
		Project:      NewProjectService(db, tc, gc, logger),
		Phase:        NewPhaseService(db, gc, logger),
		Session:      NewSessionService(db, gc, logger),
		Task:         NewTaskService(db, gc, logger),
		ClientAccess: NewClientAccessService(db, gc, cfg.MailSender, cfg.PortalBaseURL, logger),
		Portal:       NewPortalService(db),
		Dashboard:    NewDashboardService(db),
		APIKey:       NewAPIKeyService(db),
	}
}
