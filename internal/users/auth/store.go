// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import (
	"context"

	"github.com/almdal/lydcast/internal/platform/sec"
)

// # Credential Data Access

// CredentialStore defines the data access contract for user accounts and
// their password reset tokens.
//
// Users and reset tokens live behind one interface because several
// operations (password reset, token replacement, account deletion) must
// mutate both atomically inside a single storage transaction.
type CredentialStore interface {

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and CreatedAt are populated on success)

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByIdentifier returns the account matching the given username OR email.

		Parameters:
		  - context: context.Context
		  - identifier: string (username or email address)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		ReplaceResetToken atomically deletes every reset token the user owns
		and inserts the given one, so at most one active token exists per user.

		Parameters:
		  - context: context.Context
		  - token: *ResetToken

		Returns:
		  - error: Transaction failures
	*/
	ReplaceResetToken(context context.Context, token *ResetToken) error

	/*
		FindActiveResetToken returns the unexpired reset token matching the
		given secret. Expired rows are treated as absent even if they still
		physically exist.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *ResetToken: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindActiveResetToken(context context.Context, token string) (*ResetToken, error)

	/*
		ResetPassword atomically updates the user's password hash AND deletes
		every reset token the user owns. Either both happen or neither does.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Transaction failures
	*/
	ResetPassword(context context.Context, userID int64, newHash string) error

	/*
		DeleteUser permanently removes the user row. Reset tokens are removed
		by the foreign key cascade in the same statement.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Deletion failures
	*/
	DeleteUser(context context.Context, userID int64) error

	/*
		DeleteExpiredResetTokens removes all reset tokens past their expiry.
		Storage hygiene only; validity is always re-checked at consumption.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Cleanup failures
	*/
	DeleteExpiredResetTokens(context context.Context) error
}

// # Session Data Access

// SessionStore defines the contract for volatile, server-side login sessions.
type SessionStore interface {

	/*
		Create persists a new session keyed by its opaque ID, with a TTL
		derived from the session's ExpiresAt.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		Resolve maps an opaque session ID to its authenticated identity.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *sec.SessionUser: The authenticated identity
		  - error: apperr.NotFound for unknown/expired IDs, or retrieval failures
	*/
	Resolve(context context.Context, sessionID string) (*sec.SessionUser, error)

	/*
		Destroy removes a single session. Destroying an absent session is not
		an error (idempotent logout).

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Deletion failures
	*/
	Destroy(context context.Context, sessionID string) error

	/*
		DestroyAll removes every session belonging to the user.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Bulk deletion failures
	*/
	DestroyAll(context context.Context, userID int64) error

	/*
		DestroyOthers removes every session belonging to the user except the
		given one, forcing re-login on all other devices.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - keepSessionID: string

		Returns:
		  - error: Filtered deletion failures
	*/
	DestroyOthers(context context.Context, userID int64, keepSessionID string) error
}
