// Copyright (c) 2026 Lydcast. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/constants"
	"github.com/almdal/lydcast/internal/platform/ctxutil"
	"github.com/almdal/lydcast/internal/platform/respond"
	"github.com/almdal/lydcast/internal/platform/sec"
)

// SessionResolver defines the interface needed to resolve session cookies.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the auth
// service's session store implementation, allowing us to easily inject
// mocks during unit testing.
type SessionResolver interface {
	// Resolve maps an opaque session ID to its authenticated identity.
	// Unknown or expired session IDs return an error.
	Resolve(ctx context.Context, sessionID string) (*sec.SessionUser, error)
}

// LoadSession resolves the session cookie into a [*sec.SessionUser].
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve it via [SessionResolver]; resolution failures
//     (expired or destroyed sessions) also proceed as anonymous — the
//     decision to reject belongs to [RequireSession].
//  4. Inject [*sec.SessionUser] into the request context for downstream use.
func LoadSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			session, err := resolver.Resolve(request.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSessionUser(request.Context(), session)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks requests that are not authenticated.
//
// This is the gate every protected endpoint (password change, profile
// deletion, comments, likes, favorites, reviews) sits behind.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session := ctxutil.GetSessionUser(request.Context())
		if session == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
