package middleware

import (
	"net/http"
	"strings"

	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// RequireRole gates a route on an allow-list of roles. The caller's role was
// parsed once at authentication; comparison here is exact equality. The 403
// message names the roles the route accepts.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed[role] = true
		names = append(names, string(role))
	}
	required := strings.Join(names, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				response.Unauthorized(w, "unauthorized")
				return
			}

			if !allowed[actor.Role] {
				response.Forbidden(w, "requires one of roles: "+required)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
