package adminauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hbBooking/internal/lib/api/response"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "adminClaims"

// New enforces an HMAC-signed bearer token on admin routes. An empty
// secret rejects every request.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/adminauth"),
		)

		if secret == "" {
			log.Warn("admin secret is empty, admin routes are locked")
		}

		fn := func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				unauthorized(w, r, "admin auth disabled")
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w, r, "missing authorization header")
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("rejected admin token", slog.String("path", r.URL.Path), slog.String("error", errString(err)))
				unauthorized(w, r, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// ClaimsFromContext returns the admin claims set by the middleware.
func ClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.RegisteredClaims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(msg))
}

func errString(err error) string {
	if err == nil {
		return "token not valid"
	}
	return err.Error()
}
