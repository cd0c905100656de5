package http

import (
	"net/http"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/roster"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/handler/http/middleware"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/handler/http/response"
)

type DeploymentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetRoster(w http.ResponseWriter, r *http.Request)
}

type deploymentHandlerImpl struct {
	deploymentService deployment.DeploymentService
	rosterService     roster.RosterService
}

func NewDeploymentHandler(deploymentService deployment.DeploymentService, rosterService roster.RosterService) DeploymentHandler {
	return &deploymentHandlerImpl{
		deploymentService: deploymentService,
		rosterService:     rosterService,
	}
}

// List implements DeploymentHandler.
func (h *deploymentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := deployment.ListDeploymentsRequest{
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	if v := q.Get("person_id"); v != "" {
		req.PersonID = &v
	}
	if v := q.Get("site_id"); v != "" {
		req.SiteID = &v
	}

	result, err := h.deploymentService.ListDeployments(r.Context(), req, middleware.AccountID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRoster implements DeploymentHandler.
func (h *deploymentHandlerImpl) GetRoster(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := roster.GetRosterRequest{
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	if v := q.Get("site_id"); v != "" {
		req.SiteID = &v
	}
	if v := q.Get("supervisor_id"); v != "" {
		req.SupervisorID = &v
	}

	result, err := h.rosterService.GetRoster(r.Context(), req, middleware.AccountID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
