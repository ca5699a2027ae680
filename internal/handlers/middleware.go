package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/services"
	"github.com/prudhvinik1/presence/internal/utils"
	"github.com/rs/zerolog"
)

type ctxKey string

const identityCtxKey ctxKey = "presence:identity"

// Authenticate resolves the bearer credential with verifier and stores the
// caller identity on the request context. Unverifiable requests get a 401.
func Authenticate(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := utils.BearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrUnauthenticated) {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
					return
				}
				respondServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey, identity)
			logger := zerolog.Ctx(ctx).With().Str("user_id", identity.UserID).Logger()
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the caller stored by Authenticate.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(models.Identity)
	return identity, ok
}

// withLogger attaches a request-scoped logger and writes one access line per request.
func withLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
