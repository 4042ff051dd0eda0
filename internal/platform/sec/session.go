// Copyright (c) 2026 Lydcast. All rights reserved.

package sec

// SessionUser is the authenticated identity attached to a request context.
//
// # Why a dedicated type?
//
// Defining it here (rather than in the auth domain) lets middleware and
// handlers share the identity without importing the auth service, keeping
// the dependency graph acyclic.
type SessionUser struct {
	// SessionID is the opaque ID carried by the session cookie.
	SessionID string `json:"-"`

	// UserID is the surrogate ID of the authenticated account.
	UserID int64 `json:"user_id"`

	// Username is denormalized into the session so protected endpoints can
	// render ownership information without a database round trip.
	Username string `json:"username"`
}
