// Copyright (c) 2026 Lydcast. All rights reserved.

/*
Package auth implements the user identity and credential lifecycle layer.

It defines the core domain entities (User, ResetToken, Session) and the logic
for registration, authentication, password recovery, and account deletion.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

Sessions are opaque and server-side: the browser holds only a random cookie
value, which the session store maps to the authenticated identity. There is
no JWT and nothing for a client to decode or forge.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Lydcast platform.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// ResetToken represents a single-use, time-limited password reset secret.
//
// At most one token exists per user at any time: issuing a new one replaces
// any prior token, and consumption deletes every token the user owns.
type ResetToken struct {
	Token     string    `json:"-"` // The raw secret. Never serialized.
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents an active server-side login session.
type Session struct {
	ID        string    `json:"-"` // Opaque cookie value. Never serialized.
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldIdentifier      = "identifier"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldConfirmText     = "confirm_text"
	FieldUser            = "user"
	FieldMessage         = "message"
)
