package auth

import (
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Code string `json:"code"`
	PIN  string `json:"pin"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPersonCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must match the NNNN-NNNN format",
		})
	}

	if validator.IsEmpty(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresAt  int64  `json:"access_token_expires_at"`
	RefreshToken          string `json:"-"`
	RefreshTokenExpiresAt int64  `json:"-"`
	PersonID              string `json:"person_id"`
	PersonName            string `json:"person_name"`
	Role                  string `json:"role"`
}
