package middleware

import (
	"net/http"

	"github.com/autopay-os/payroll-backend-go/internal/domain/user"
	"github.com/autopay-os/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireHRManager requires hr_manager or admin role
func RequireHRManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrHRManagerAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrHRManagerAccessRequired)
			return
		}

		role := user.Role(roleStr)
		if role != user.RoleHRManager && role != user.RoleAdmin {
			response.HandleError(w, user.ErrHRManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
