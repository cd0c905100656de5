package deployment

import (
	"context"
	"time"
)

// DeploymentService resolves sparse assignment intervals into concrete
// per-day deployments.
type DeploymentService interface {
	// ListDeployments expands assignments overlapping the requested range
	// into per-day deployments, ordered by person display key then date.
	ListDeployments(ctx context.Context, req ListDeploymentsRequest, accountID string) (ListDeploymentsResponse, error)

	// ResolveForDay returns the deployment for (personID, day) at siteID,
	// if one exists. Used by check-in validation.
	ResolveForDay(ctx context.Context, personID string, siteID string, day time.Time, accountID string) (*Deployment, error)
}
