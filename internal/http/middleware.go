package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/identity"
	"github.com/google/uuid"
)

// Headers set by the fronting gateway after it authenticates the caller.
// This service trusts them; authentication itself happens upstream.
const (
	HeaderEmployeeID = "X-Employee-Id"
	HeaderManager    = "X-Manager"
)

// RequirePrincipal extracts the calling principal from the gateway headers and
// rejects requests that carry none. Paths listed in exempt pass through
// untouched.
func RequirePrincipal(logger *slog.Logger, exempt ...string) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	exemptPaths := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		exemptPaths[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(r.Header.Get(HeaderEmployeeID))
			if raw == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingPrincipal)
				return
			}

			employeeID, err := identity.Parse(raw)
			if err != nil {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidEmployeeID)
				return
			}

			principal := application.Principal{
				EmployeeID: employeeID,
				IsManager:  strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderManager)), "true"),
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger carrying a correlation id to
// the context and records request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
