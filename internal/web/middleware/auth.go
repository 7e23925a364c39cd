package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/auth"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
)

// AdminAuth rejects requests that do not carry a valid token for an active
// admin. Authorized requests get the admin identity in their context for
// audit entries and log lines.
func AdminAuth(guard *auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch d := guard.Check(r.Context(), auth.BearerToken(r)).(type) {
			case auth.Authorized:
				ctx := core.ContextWithAdmin(r.Context(), core.Admin{
					UserID: d.Identity.UserID,
					Email:  d.Identity.Email,
				})
				ctx = logging.WithContext(ctx, "user_id", d.Identity.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))

			case auth.Denied:
				logging.FromContext(r.Context()).Warn("auth: request denied",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"status", d.Status,
					"reason", d.Reason,
				)
				writeDenied(w, d)
			}
		})
	}
}

func writeDenied(w http.ResponseWriter, d auth.Denied) {
	msg := core.MapError(d.Reason)
	if d.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="backoffice"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(d.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   msg.Message,
		"message": msg.Message,
		"action":  msg.Action,
		"code":    msg.Code,
	})
}
