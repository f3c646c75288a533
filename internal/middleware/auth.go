package middleware

import (
	"net/http"

	"planeta-be/internal/auth"
	"planeta-be/internal/logger"

	"go.uber.org/zap"
)

// SessionMiddleware attaches a cart session to every request. A missing,
// invalid or expired token starts a fresh session whose token is returned in
// the session cookie and header.
func SessionMiddleware(issuer *auth.Issuer, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sid := ""
			if token := auth.ExtractSessionToken(r); token != "" {
				parsed, err := issuer.Parse(token)
				if err != nil {
					logger.FromCtx(ctx).Debug("discarding cart session token", zap.Error(err))
				} else {
					sid = parsed
				}
			}

			if sid == "" {
				newSID, token, err := issuer.Issue()
				if err != nil {
					logger.FromCtx(ctx).Error("failed to issue cart session", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				sid = newSID

				http.SetCookie(w, &http.Cookie{
					Name:     auth.SessionCookie,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				w.Header().Set(auth.SessionHeader, token)
			}

			ctx = auth.WithSessionID(ctx, sid)
			ctx = logger.WithSessionID(ctx, sid)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
