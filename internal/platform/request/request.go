// Copyright (c) 2026 Lydcast. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/ctxutil"
	"github.com/almdal/lydcast/internal/platform/sec"
	"github.com/almdal/lydcast/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a positive int64.

Returns:
  - int64: The parsed value
  - error: apperr.ValidationError if the parameter is missing or not a positive integer
*/
func IntParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.ValidationError("Invalid " + name)
	}
	return value, nil
}

/*
Session extracts the authenticated session identity from the request context.

Returns nil if the request is anonymous.
*/
func Session(request *http.Request) *sec.SessionUser {
	return ctxutil.GetSessionUser(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns the session identity.

Returns:
  - *sec.SessionUser: The authenticated session
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*sec.SessionUser, error) {

	// Get the session identity
	session := ctxutil.GetSessionUser(request.Context())

	// If the user is not authenticated, return an error
	if session == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return session, nil
}

/*
RequiredUserID returns the user ID of the currently logged-in user.

Returns:
  - int64: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (int64, error) {

	// Get the session identity
	session, err := RequiredSession(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return 0, err
	}

	return session.UserID, nil
}
