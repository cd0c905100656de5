package deployment

import (
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/validator"
)

type ListDeploymentsRequest struct {
	PersonID *string
	SiteID   *string
	DateFrom string
	DateTo   string
}

func (r *ListDeploymentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.DateFrom); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date_from",
			Message: "date_from must be a valid YYYY-MM-DD date",
		})
	}

	if _, ok := validator.IsValidDate(r.DateTo); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must be a valid YYYY-MM-DD date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DeploymentResponse struct {
	PersonID           string `json:"person_id"`
	PersonName         string `json:"person_name"`
	SiteID             string `json:"site_id"`
	ShiftID            string `json:"shift_id"`
	ShiftName          string `json:"shift_name,omitempty"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	SourceAssignmentID string `json:"source_assignment_id"`
}

type ListDeploymentsResponse struct {
	TotalCount  int                  `json:"total_count"`
	Deployments []DeploymentResponse `json:"deployments"`
}

// ToResponse converts a derived Deployment to its wire shape.
func ToResponse(d Deployment) DeploymentResponse {
	return DeploymentResponse{
		PersonID:           d.PersonID,
		PersonName:         d.PersonName,
		SiteID:             d.SiteID,
		ShiftID:            d.ShiftID,
		ShiftName:          d.ShiftName,
		Date:               d.Date.Format("2006-01-02"),
		StartTime:          d.StartTime,
		EndTime:            d.EndTime,
		SourceAssignmentID: d.SourceAssignmentID,
	}
}
