// Copyright (c) 2026 Lydcast. All rights reserved.

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/sec"
	"github.com/almdal/lydcast/internal/users/auth"
)

// # In-Memory Fakes

// fakeCredentialStore implements [auth.CredentialStore] over maps, mirroring
// the constraint and cascade semantics of the Postgres store.
type fakeCredentialStore struct {
	users  map[int64]*auth.User
	tokens map[string]*auth.ResetToken
	nextID int64
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		users:  make(map[int64]*auth.User),
		tokens: make(map[string]*auth.ResetToken),
	}
}

func (s *fakeCredentialStore) Create(_ context.Context, user *auth.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return apperr.Conflict("Username is already taken")
		}
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeCredentialStore) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *fakeCredentialStore) FindByIdentifier(_ context.Context, identifier string) (*auth.User, error) {
	// Emails are stored lower-cased; the Postgres store folds the email
	// comparison the same way (email = LOWER($1)).
	for _, user := range s.users {
		if user.Username == identifier || user.Email == strings.ToLower(identifier) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *fakeCredentialStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *fakeCredentialStore) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	if user, ok := s.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (s *fakeCredentialStore) ReplaceResetToken(_ context.Context, token *auth.ResetToken) error {
	s.deleteTokensForUser(token.UserID)
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeCredentialStore) FindActiveResetToken(_ context.Context, token string) (*auth.ResetToken, error) {
	resetToken, ok := s.tokens[token]
	if !ok || !resetToken.ExpiresAt.After(time.Now()) {
		return nil, apperr.NotFound("Reset token")
	}
	return resetToken, nil
}

func (s *fakeCredentialStore) ResetPassword(_ context.Context, userID int64, newHash string) error {
	if user, ok := s.users[userID]; ok {
		user.PasswordHash = newHash
	}
	s.deleteTokensForUser(userID)
	return nil
}

func (s *fakeCredentialStore) DeleteUser(_ context.Context, userID int64) error {
	delete(s.users, userID)
	s.deleteTokensForUser(userID) // FK cascade equivalent
	return nil
}

func (s *fakeCredentialStore) DeleteExpiredResetTokens(_ context.Context) error {
	for key, token := range s.tokens {
		if !token.ExpiresAt.After(time.Now()) {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *fakeCredentialStore) deleteTokensForUser(userID int64) {
	for key, token := range s.tokens {
		if token.UserID == userID {
			delete(s.tokens, key)
		}
	}
}

// fakeSessionStore implements [auth.SessionStore] over a map.
type fakeSessionStore struct {
	sessions map[string]*auth.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*auth.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *auth.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeSessionStore) Resolve(_ context.Context, sessionID string) (*sec.SessionUser, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return &sec.SessionUser{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
	}, nil
}

func (s *fakeSessionStore) Destroy(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeSessionStore) DestroyAll(_ context.Context, userID int64) error {
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *fakeSessionStore) DestroyOthers(_ context.Context, userID int64, keepSessionID string) error {
	for id, session := range s.sessions {
		if session.UserID == userID && id != keepSessionID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *fakeSessionStore) countFor(userID int64) int {
	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

// fakeMailer records deliveries on a channel so tests can wait for the
// service's fire-and-forget dispatch goroutine.
type fakeMailer struct {
	deliveries chan delivery
}

type delivery struct {
	to, username, link string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{deliveries: make(chan delivery, 8)}
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, toEmail, username, resetLink string) error {
	m.deliveries <- delivery{to: toEmail, username: username, link: resetLink}
	return nil
}

// # Test Harness

func newTestService(t *testing.T) (*auth.Service, *fakeCredentialStore, *fakeSessionStore, *fakeMailer) {
	t.Helper()

	credentials := newFakeCredentialStore()
	sessions := newFakeSessionStore()
	mailer := newFakeMailer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := auth.NewService(credentials, sessions, mailer, logger, "https://lydcast.dk")
	return service, credentials, sessions, mailer
}

func registerUser(t *testing.T, service *auth.Service, username, email, password string) *auth.User {
	t.Helper()

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func waitForDelivery(t *testing.T, mailer *fakeMailer) delivery {
	t.Helper()

	select {
	case d := <-mailer.deliveries:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reset email delivery")
		return delivery{}
	}
}

// # Registration

/*
TestService_Register verifies account creation and input normalization.
*/
func TestService_Register(t *testing.T) {
	service, _, _, _ := newTestService(t)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "  freja  ",
		Email:    "  Freja@Lydcast.DK ",
		Password: "hemmeligt123",
	})
	require.NoError(t, err)

	// 1. Identity assigned and inputs normalized
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "freja", user.Username)
	assert.Equal(t, "freja@lydcast.dk", user.Email)

	// 2. Password is stored hashed, never plain
	assert.NotEqual(t, "hemmeligt123", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hemmeligt123", user.PasswordHash))
}

/*
TestService_Register_Duplicates verifies that username and email uniqueness
surface as Conflict errors.
*/
func TestService_Register_Duplicates(t *testing.T) {
	service, _, _, _ := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate_username", "freja", "other@lydcast.dk"},
		{"duplicate_email", "other", "freja@lydcast.dk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: tt.username,
				Email:    tt.email,
				Password: "hemmeligt123",
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
		})
	}
}

// # Login & Logout

/*
TestService_Login verifies session issuance for username and email login.
*/
func TestService_Login(t *testing.T) {
	service, _, sessions, _ := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	tests := []struct {
		name       string
		identifier string
	}{
		{"by_username", "freja"},
		{"by_email", "freja@lydcast.dk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.Login(context.Background(), auth.LoginInput{
				Identifier: tt.identifier,
				Password:   "hemmeligt123",
			})
			require.NoError(t, err)

			assert.NotEmpty(t, session.SessionID)
			assert.True(t, session.ExpiresAt.After(time.Now()))
			assert.Equal(t, "freja", session.User.Username)

			// The session must be resolvable server-side
			identity, err := sessions.Resolve(context.Background(), session.SessionID)
			require.NoError(t, err)
			assert.Equal(t, session.User.ID, identity.UserID)
		})
	}
}

/*
TestService_Login_EmailCase verifies that an email typed with any casing
logs in, since registration stores the address lower-cased.
*/
func TestService_Login_EmailCase(t *testing.T) {
	service, _, _, _ := newTestService(t)
	registerUser(t, service, "freja", "Freja@Lydcast.dk", "hemmeligt123")

	tests := []struct {
		name       string
		identifier string
	}{
		{"as_registered", "Freja@Lydcast.dk"},
		{"lowercase", "freja@lydcast.dk"},
		{"uppercase_domain", "freja@LYDCAST.DK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.Login(context.Background(), auth.LoginInput{
				Identifier: tt.identifier,
				Password:   "hemmeligt123",
			})

			require.NoError(t, err)
			assert.Equal(t, "freja", session.User.Username)
		})
	}
}

/*
TestService_Login_EnumerationResistance verifies that an unknown identifier
and a wrong password produce byte-identical errors.
*/
func TestService_Login_EnumerationResistance(t *testing.T) {
	service, _, _, _ := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	_, unknownErr := service.Login(context.Background(), auth.LoginInput{
		Identifier: "no-such-user",
		Password:   "hemmeligt123",
	})
	_, wrongPasswordErr := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "forkert-kode",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPasswordErr)

	// Same code, same message: the caller cannot tell the cases apart
	assert.Equal(t, unknownErr.Error(), wrongPasswordErr.Error())
	assert.Equal(t, "UNAUTHORIZED", apperr.As(unknownErr).Code)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPasswordErr).Code)
}

/*
TestService_Logout verifies session destruction and idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, _, sessions, _ := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	require.NoError(t, err)

	// 1. First logout destroys the session
	require.NoError(t, service.Logout(context.Background(), session.SessionID))
	_, err = sessions.Resolve(context.Background(), session.SessionID)
	assert.Error(t, err)

	// 2. Logging out again (or with no cookie at all) is not an error
	assert.NoError(t, service.Logout(context.Background(), session.SessionID))
	assert.NoError(t, service.Logout(context.Background(), ""))
}

// # Password Recovery

/*
TestService_RequestPasswordReset verifies token issuance and email dispatch
for a registered address.
*/
func TestService_RequestPasswordReset(t *testing.T) {
	service, credentials, _, mailer := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	err := service.RequestPasswordReset(context.Background(), "Freja@Lydcast.DK")
	require.NoError(t, err)

	// The reset link is delivered asynchronously
	sent := waitForDelivery(t, mailer)
	assert.Equal(t, user.Email, sent.to)
	assert.Equal(t, "freja", sent.username)
	assert.Contains(t, sent.link, "https://lydcast.dk/reset-password?token=")

	// The token embedded in the link must be the active one
	token := strings.TrimPrefix(sent.link, "https://lydcast.dk/reset-password?token=")
	resetToken, err := credentials.FindActiveResetToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resetToken.UserID)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the generic success
response for unregistered addresses: no error, no token, no email.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	service, credentials, _, mailer := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	err := service.RequestPasswordReset(context.Background(), "unknown@lydcast.dk")
	assert.NoError(t, err)

	assert.Empty(t, credentials.tokens)
	select {
	case <-mailer.deliveries:
		t.Fatal("no email may be sent for an unknown address")
	case <-time.After(100 * time.Millisecond):
	}
}

/*
TestService_RequestPasswordReset_Supersedes verifies that a new request
invalidates the previous token: at most one active token per user.
*/
func TestService_RequestPasswordReset_Supersedes(t *testing.T) {
	service, credentials, _, mailer := newTestService(t)
	registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	require.NoError(t, service.RequestPasswordReset(context.Background(), "freja@lydcast.dk"))
	first := waitForDelivery(t, mailer)

	require.NoError(t, service.RequestPasswordReset(context.Background(), "freja@lydcast.dk"))
	second := waitForDelivery(t, mailer)

	assert.NotEqual(t, first.link, second.link)
	assert.Len(t, credentials.tokens, 1)

	// The superseded token no longer resets anything
	firstToken := strings.TrimPrefix(first.link, "https://lydcast.dk/reset-password?token=")
	err := service.ResetPassword(context.Background(), firstToken, "nytkodeord456")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_ResetPassword verifies the happy path: password updated, token
burned, and every session destroyed.
*/
func TestService_ResetPassword(t *testing.T) {
	service, _, sessions, mailer := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	// Two active sessions before the reset
	for i := 0; i < 2; i++ {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Identifier: "freja",
			Password:   "hemmeligt123",
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, sessions.countFor(user.ID))

	require.NoError(t, service.RequestPasswordReset(context.Background(), "freja@lydcast.dk"))
	sent := waitForDelivery(t, mailer)
	token := strings.TrimPrefix(sent.link, "https://lydcast.dk/reset-password?token=")

	require.NoError(t, service.ResetPassword(context.Background(), token, "nytkodeord456"))

	// 1. Old password no longer works, new one does
	_, err := service.Login(context.Background(), auth.LoginInput{Identifier: "freja", Password: "hemmeligt123"})
	assert.Error(t, err)
	_, err = service.Login(context.Background(), auth.LoginInput{Identifier: "freja", Password: "nytkodeord456"})
	assert.NoError(t, err)

	// 2. The token is single-use
	err = service.ResetPassword(context.Background(), token, "endnuetkodeord")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_ResetPassword_DestroysSessions verifies that a completed reset
logs the user out everywhere.
*/
func TestService_ResetPassword_DestroysSessions(t *testing.T) {
	service, _, sessions, mailer := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	_, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	require.NoError(t, err)

	require.NoError(t, service.RequestPasswordReset(context.Background(), "freja@lydcast.dk"))
	sent := waitForDelivery(t, mailer)
	token := strings.TrimPrefix(sent.link, "https://lydcast.dk/reset-password?token=")

	require.NoError(t, service.ResetPassword(context.Background(), token, "nytkodeord456"))

	assert.Equal(t, 0, sessions.countFor(user.ID))
}

/*
TestService_ResetPassword_InvalidTokens verifies the generic failure for
unknown and expired tokens.
*/
func TestService_ResetPassword_InvalidTokens(t *testing.T) {
	service, credentials, _, _ := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	// An expired token, planted directly in the store
	expired := &auth.ResetToken{
		Token:     "deadbeefdeadbeef",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, credentials.ReplaceResetToken(context.Background(), expired))

	tests := []struct {
		name  string
		token string
	}{
		{"unknown_token", "no-such-token"},
		{"expired_token", "deadbeefdeadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ResetPassword(context.Background(), tt.token, "nytkodeord456")

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, "Invalid or expired reset token", ae.Message)
		})
	}

	// Failed resets never change the password
	_, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	assert.NoError(t, err)
}

// # Password Change

/*
TestService_ChangePassword verifies the authenticated password change,
including the keep-current-session semantics.
*/
func TestService_ChangePassword(t *testing.T) {
	service, _, sessions, _ := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	current, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	require.NoError(t, err)

	other, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	require.NoError(t, err)

	identity := &sec.SessionUser{SessionID: current.SessionID, UserID: user.ID, Username: user.Username}
	require.NoError(t, service.ChangePassword(context.Background(), identity, "hemmeligt123", "nytkodeord456"))

	// 1. New password is in effect
	_, err = service.Login(context.Background(), auth.LoginInput{Identifier: "freja", Password: "nytkodeord456"})
	assert.NoError(t, err)

	// 2. The changing device stays logged in, every other device does not
	_, err = sessions.Resolve(context.Background(), current.SessionID)
	assert.NoError(t, err)
	_, err = sessions.Resolve(context.Background(), other.SessionID)
	assert.Error(t, err)
}

/*
TestService_ChangePassword_Rejections verifies that failed checks leave the
credentials untouched.
*/
func TestService_ChangePassword_Rejections(t *testing.T) {
	service, _, _, _ := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")
	identity := &sec.SessionUser{SessionID: "sid", UserID: user.ID, Username: user.Username}

	tests := []struct {
		name            string
		currentPassword string
		newPassword     string
		expectedMessage string
	}{
		{"wrong_current", "forkert-kode", "nytkodeord456", "Current password is incorrect"},
		{"unchanged_password", "hemmeligt123", "hemmeligt123", "New password must be different from the current password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ChangePassword(context.Background(), identity, tt.currentPassword, tt.newPassword)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, tt.expectedMessage, ae.Message)

			// Old password still works
			_, err = service.Login(context.Background(), auth.LoginInput{
				Identifier: "freja",
				Password:   "hemmeligt123",
			})
			assert.NoError(t, err)
		})
	}
}

// # Account Deletion

/*
TestService_DeleteAccount verifies full account removal: user row, reset
tokens, and sessions all gone.
*/
func TestService_DeleteAccount(t *testing.T) {
	service, credentials, sessions, mailer := newTestService(t)
	user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "freja",
		Password:   "hemmeligt123",
	})
	require.NoError(t, err)

	// A pending reset token should disappear with the account
	require.NoError(t, service.RequestPasswordReset(context.Background(), "freja@lydcast.dk"))
	waitForDelivery(t, mailer)

	identity := &sec.SessionUser{SessionID: session.SessionID, UserID: user.ID, Username: user.Username}
	require.NoError(t, service.DeleteAccount(context.Background(), identity, "hemmeligt123", "delete my profile"))

	assert.Empty(t, credentials.users)
	assert.Empty(t, credentials.tokens)
	assert.Equal(t, 0, sessions.countFor(user.ID))
}

/*
TestService_DeleteAccount_ConfirmationPhrase verifies the normalization of
the confirmation phrase and the rejection paths.
*/
func TestService_DeleteAccount_ConfirmationPhrase(t *testing.T) {
	tests := []struct {
		name        string
		confirmText string
		password    string
		deleted     bool
	}{
		{"exact_phrase", "delete my profile", "hemmeligt123", true},
		{"case_and_whitespace_normalized", "  Delete My Profile  ", "hemmeligt123", true},
		{"wrong_phrase", "yes please", "hemmeligt123", false},
		{"empty_phrase", "", "hemmeligt123", false},
		{"wrong_password", "delete my profile", "forkert-kode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, credentials, _, _ := newTestService(t)
			user := registerUser(t, service, "freja", "freja@lydcast.dk", "hemmeligt123")
			identity := &sec.SessionUser{SessionID: "sid", UserID: user.ID, Username: user.Username}

			err := service.DeleteAccount(context.Background(), identity, tt.password, tt.confirmText)

			if tt.deleted {
				require.NoError(t, err)
				assert.Empty(t, credentials.users)
			} else {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				assert.Len(t, credentials.users, 1, "a failed check must never delete anything")
			}
		})
	}
}
