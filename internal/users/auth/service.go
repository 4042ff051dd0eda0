// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/constants"
	"github.com/almdal/lydcast/internal/platform/mail"
	"github.com/almdal/lydcast/internal/platform/sec"
)

// mailDispatchTimeout bounds the fire-and-forget reset email delivery.
// It is detached from the request context so mail-transport latency can
// never delay or fail the HTTP response.
const mailDispatchTimeout = 15 * time.Second

// # Service

// Service implements the credential lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, session
// issuance, or the enumeration-resistance behavior of the reset flow must
// be reviewed by the security team.
type Service struct {
	credentials   CredentialStore
	sessions      SessionStore
	mailer        mail.Sender
	logger        *slog.Logger
	resetLinkBase string
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	credentials CredentialStore,
	sessions SessionStore,
	mailer mail.Sender,
	logger *slog.Logger,
	resetLinkBase string,
) *Service {
	return &Service{
		credentials:   credentials,
		sessions:      sessions,
		mailer:        mailer,
		logger:        logger,
		resetLinkBase: resetLinkBase,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Hashes the password and inserts the account. Uniqueness of
username and email is enforced by the storage layer's constraints, so a
losing concurrent registration fails atomically with a Conflict and never
leaves a partial row.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (ID assigned, hash never echoed)
  - error: apperr.Conflict if the identity exists, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		PasswordHash: hashedPassword,
	}

	// Persist; the store maps unique violations to client-safe Conflicts
	if err := service.credentials.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Username or email
	Password   string
}

// LoginSession represents a successfully established login session.
type LoginSession struct {
	SessionID string
	ExpiresAt time.Time
	User      *User
}

/*
Login validates user credentials and establishes a server-side session.

Description: Looks up by username or email, performs constant-time password
verification, and issues an opaque session ID for the cookie.

An unknown identifier and a wrong password produce the exact same error, so
a caller can never learn which identifiers are registered.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Cookie-ready session and the safe user projection
  - error: apperr.Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.credentials.FindByIdentifier(context, strings.TrimSpace(input.Identifier))

	// Unknown identifier. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// bcrypt's verification is constant-time, closing the timing side channel
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

/*
Logout destroys the caller's session.

Description: Idempotent. An already-destroyed or unknown session is treated
as a successful logout.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := service.sessions.Destroy(context, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
CurrentUser returns the safe profile of the authenticated user.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *User: Hydrated entity (hash omitted from JSON)
  - error: apperr.NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID int64) (*User, error) {
	return service.credentials.FindByID(context, userID)
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: If the email belongs to an account, a fresh reset token replaces
any prior token for that user and the reset link is dispatched by email.

This method ALWAYS reports success. Unknown emails, storage failures, and
delivery failures are logged server-side and swallowed, so the response
never reveals whether an email address is registered.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Always nil
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	// Opportunistic hygiene: clear tokens past expiry before issuing new ones
	if err := service.credentials.DeleteExpiredResetTokens(context); err != nil {
		service.logger.ErrorContext(context, "auth_token_sweep_failed", slog.Any("error", err))
	}

	user, err := service.credentials.FindByEmail(context, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		// Unknown email. Same outward behavior as the success path.
		service.logger.InfoContext(context, "auth_reset_requested_unknown_email")
		return nil
	}

	token, err := sec.GenerateToken(ResetTokenLength)
	if err != nil {
		service.logger.ErrorContext(context, "auth_reset_token_generation_failed", slog.Any("error", err))
		return nil
	}

	resetToken := &ResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ResetTokenTTL),
	}

	// Supersedes any prior token: at most one active token per user
	if err := service.credentials.ReplaceResetToken(context, resetToken); err != nil {
		service.logger.ErrorContext(context, "auth_reset_token_store_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
		return nil
	}

	// Fire-and-forget delivery on a detached context. The HTTP response must
	// not wait on mail-transport latency.
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", service.resetLinkBase, token)
	go func() {
		mailContext, cancel := detachedMailContext()
		defer cancel()

		if err := service.mailer.SendPasswordReset(mailContext, user.Email, user.Username, resetLink); err != nil {
			service.logger.Error("auth_reset_email_delivery_failed",
				slog.Int64("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}()

	return nil
}

// detachedMailContext returns a background-derived context for mail dispatch,
// independent of the originating request's lifetime.
func detachedMailContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mailDispatchTimeout)
}

/*
ResetPassword completes the forgot-password flow.

Description: Validates the token (unknown and expired are indistinguishable),
then applies the new password hash and burns every token for that user in one
atomic transaction. All of the user's sessions are destroyed afterwards,
since whoever triggered the reset may not be whoever was logged in.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Validation or storage failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Opportunistic hygiene on the consumption side as well
	if err := service.credentials.DeleteExpiredResetTokens(context); err != nil {
		service.logger.ErrorContext(context, "auth_token_sweep_failed", slog.Any("error", err))
	}

	resetToken, err := service.credentials.FindActiveResetToken(context, token)
	if err != nil {
		if apperr.IsAppError(err) {
			// Generic: does not reveal whether the token was unknown or expired
			return apperr.ValidationError("Invalid or expired reset token")
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	// Atomic: password update + token burn, or neither
	if err := service.credentials.ResetPassword(context, resetToken.UserID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_apply_failed: %w", err)
	}

	// Security cleanup: destroy EVERY session for this user. Failure here is
	// logged but does not undo the completed reset.
	if err := service.sessions.DestroyAll(context, resetToken.UserID); err != nil {
		service.logger.ErrorContext(context, "auth_reset_session_purge_failed",
			slog.Int64("user_id", resetToken.UserID),
			slog.Any("error", err),
		)
	}

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, rejects a no-op change, then
persists the new hash. Every OTHER session for the user is destroyed; the
device making the change stays logged in.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Validation or storage failures
*/
func (service *Service) ChangePassword(context context.Context, identity *sec.SessionUser, currentPassword, newPassword string) error {
	user, err := service.credentials.FindByID(context, identity.UserID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing any change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.ValidationError("Current password is incorrect")
	}

	// A "change" to the same password is almost always a user mistake
	if newPassword == currentPassword {
		return apperr.ValidationError("New password must be different from the current password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_hash_failed: %w", err)
	}

	if err := service.credentials.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_update_failed: %w", err)
	}

	// Force re-login on all other devices
	if err := service.sessions.DestroyOthers(context, user.ID, identity.SessionID); err != nil {
		service.logger.ErrorContext(context, "auth_change_session_purge_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return nil
}

// # Account Deletion

/*
DeleteAccount permanently removes the authenticated user's account.

Description: Requires the exact confirmation phrase (case-insensitive,
trimmed) and the account password. On success the user row and its reset
tokens are removed in one cascading delete, then every session is destroyed.
Any failed check leaves all data and the session untouched.

Parameters:
  - context: context.Context
  - identity: *sec.SessionUser
  - password: string
  - confirmText: string

Returns:
  - error: Validation or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, identity *sec.SessionUser, password, confirmText string) error {

	// The confirmation phrase is normalized before comparison
	normalized := strings.ToLower(strings.TrimSpace(confirmText))
	if normalized != constants.ConfirmDeletePhrase {
		return apperr.ValidationError(
			fmt.Sprintf("Type %q to confirm deletion", constants.ConfirmDeletePhrase),
		)
	}

	user, err := service.credentials.FindByID(context, identity.UserID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return apperr.ValidationError("Password is incorrect")
	}

	// FK cascade removes the user's reset tokens in the same delete
	if err := service.credentials.DeleteUser(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_delete_account_failed: %w", err)
	}

	// The account is gone; no session referencing it may survive
	if err := service.sessions.DestroyAll(context, user.ID); err != nil {
		service.logger.ErrorContext(context, "auth_delete_session_purge_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return nil
}

// # Internals

// issueSession creates and persists a fresh session for the user.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {
	sessionID, err := sec.GenerateToken(SessionIDLength)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        sessionID,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}

	if err := service.sessions.Create(context, session); err != nil {
		return nil, err
	}

	return session, nil
}
