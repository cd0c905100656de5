package roster

import (
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/validator"
)

type GetRosterRequest struct {
	DateFrom     string
	DateTo       string
	SiteID       *string
	SupervisorID *string
}

func (r *GetRosterRequest) Validate() error {
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

// RosterCell is one day for one person: either the resolved deployment or an
// empty cell.
type RosterCell struct {
	Date       string                         `json:"date"`
	Deployment *deployment.DeploymentResponse `json:"deployment,omitempty"`
}

type RosterRow struct {
	PersonID   string       `json:"person_id"`
	PersonName string       `json:"person_name"`
	Cells      []RosterCell `json:"cells"`
}

type RosterResponse struct {
	DateFrom string      `json:"date_from"`
	DateTo   string      `json:"date_to"`
	Rows     []RosterRow `json:"rows"`
}
