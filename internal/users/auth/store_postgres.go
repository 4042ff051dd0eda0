// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almdal/lydcast/internal/platform/apperr"
)

// # Credential Store (PostgreSQL)

// PostgresCredentialStore implements the [CredentialStore] interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage details.
type PostgresCredentialStore struct {
	pool *pgxpool.Pool
}

// NewCredentialStore creates a new PostgreSQL implementation of [CredentialStore].
func NewCredentialStore(pool *pgxpool.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

const userColumns = "id, username, email, password_hash, created_at"

/*
Create persists a new user record into the users table.

Description: Inserts the account and hydrates the surrogate ID and creation
timestamp back into the entity. Unique constraint violations are translated
into client-safe Conflict errors.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or connectivity errors
*/
func (store *PostgresCredentialStore) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := store.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if conflict := asConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("postgres_credential_store_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their surrogate ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresCredentialStore) FindByID(context context.Context, id int64) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	user := &User{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_credential_store_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByIdentifier retrieves a user record by username or email in one query.

Description: Login accepts either identifier form, so this lookup matches
both columns in a single round trip. Emails are stored lower-cased, so the
email comparison folds the identifier the same way.

Parameters:
  - context: context.Context
  - identifier: string (username or email)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresCredentialStore) FindByIdentifier(context context.Context, identifier string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1 OR email = LOWER($1)"

	user := &User{}
	err := store.pool.QueryRow(context, query, identifier).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_credential_store_find_by_identifier_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresCredentialStore) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"

	user := &User{}
	err := store.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_credential_store_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Execution errors
*/
func (store *PostgresCredentialStore) UpdatePassword(context context.Context, userID int64, newHash string) error {
	const query = "UPDATE users SET password_hash = $2 WHERE id = $1"

	_, err := store.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_update_password_failed: %w", err)
	}

	return nil
}

/*
ReplaceResetToken installs a new reset token for a user, superseding any prior one.

Description: Delete-then-insert inside one transaction. Combined with the
unique constraint on the token column, this guarantees at most one active
token per user even under concurrent reset requests.

Parameters:
  - context: context.Context
  - token: *ResetToken

Returns:
  - error: Transaction failures
*/
func (store *PostgresCredentialStore) ReplaceResetToken(context context.Context, token *ResetToken) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_replace_token_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// 1. Remove any prior token for this user
	if _, err := transaction.Exec(context,
		"DELETE FROM password_resets WHERE user_id = $1", token.UserID); err != nil {
		return fmt.Errorf("postgres_credential_store_replace_token_delete_failed: %w", err)
	}

	// 2. Insert the replacement
	if _, err := transaction.Exec(context,
		"INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)",
		token.Token, token.UserID, token.ExpiresAt); err != nil {
		return fmt.Errorf("postgres_credential_store_replace_token_insert_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_credential_store_replace_token_commit_failed: %w", err)
	}

	return nil
}

/*
FindActiveResetToken retrieves an unexpired reset token by its secret value.

Description: The expiry check happens in the query itself, so rows past their
expiry are invisible here regardless of whether the sweep has removed them yet.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *ResetToken: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (store *PostgresCredentialStore) FindActiveResetToken(context context.Context, token string) (*ResetToken, error) {
	const query = `
		SELECT token, user_id, expires_at, created_at
		FROM password_resets
		WHERE token = $1 AND expires_at > NOW()`

	resetToken := &ResetToken{}
	err := store.pool.QueryRow(context, query, token).Scan(
		&resetToken.Token,
		&resetToken.UserID,
		&resetToken.ExpiresAt,
		&resetToken.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reset token")
		}
		return nil, fmt.Errorf("postgres_credential_store_find_token_failed: %w", err)
	}

	return resetToken, nil
}

/*
ResetPassword applies a recovered password and burns the user's reset tokens.

Description: The password update and the token deletion run in one
transaction. A half-applied reset (new password but a still-valid token, or
vice versa) can never be observed.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Transaction failures
*/
func (store *PostgresCredentialStore) ResetPassword(context context.Context, userID int64, newHash string) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_reset_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// 1. Apply the new password hash
	if _, err := transaction.Exec(context,
		"UPDATE users SET password_hash = $2 WHERE id = $1", userID, newHash); err != nil {
		return fmt.Errorf("postgres_credential_store_reset_update_failed: %w", err)
	}

	// 2. Burn every token the user owns, not just the consumed one
	if _, err := transaction.Exec(context,
		"DELETE FROM password_resets WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("postgres_credential_store_reset_burn_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_credential_store_reset_commit_failed: %w", err)
	}

	return nil
}

/*
DeleteUser permanently removes a user account.

Description: The ON DELETE CASCADE on password_resets removes the user's
tokens in the same statement, so no orphaned tokens can survive.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Deletion failures
*/
func (store *PostgresCredentialStore) DeleteUser(context context.Context, userID int64) error {
	const query = "DELETE FROM users WHERE id = $1"

	_, err := store.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_delete_user_failed: %w", err)
	}

	return nil
}

/*
DeleteExpiredResetTokens removes all reset tokens past their expiry.

Description: Cleanup task to reclaim storage from stale tokens. Runs lazily
at the start of reset flows rather than on a timer.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (store *PostgresCredentialStore) DeleteExpiredResetTokens(context context.Context) error {
	const query = "DELETE FROM password_resets WHERE expires_at <= NOW()"

	_, err := store.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_credential_store_token_sweep_failed: %w", err)
	}

	return nil
}

// asConflict translates a unique constraint violation into a client-safe
// Conflict error naming the conflicting field. Returns nil for other errors.
func asConflict(err error) *apperr.AppError {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch {
	case strings.Contains(pgError.ConstraintName, "username"):
		return apperr.Conflict("Username is already taken")
	case strings.Contains(pgError.ConstraintName, "email"):
		return apperr.Conflict("Email is already registered")
	default:
		return apperr.Conflict("Account already exists")
	}
}
