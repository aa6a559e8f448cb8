package web

import (
	"net/http"

	"github.com/RezaEskandarii/jobconsole/internal/registry"
)

// authMiddleware redirects anonymous requests to the login page when auth is on and
// records the operator on the request context for the registry's audit logs.
func (handler *HttpRouteHandler) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if !handler.UseAuth {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		username, ok := usernameFromAuthToken(cookie.Value, handler.SecretKey)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(registry.WithOperator(r.Context(), username)))
	}
}
