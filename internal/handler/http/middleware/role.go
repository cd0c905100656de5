package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/handler/http/response"
)

// RequireSupervisor requires supervisor or admin role
func RequireSupervisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Supervisor access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Supervisor access required")
			return
		}

		if !personnel.Role(roleStr).CanSupervise() {
			response.Forbidden(w, "Supervisor access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
