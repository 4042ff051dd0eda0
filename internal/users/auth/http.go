// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/almdal/lydcast/internal/platform/constants"
	"github.com/almdal/lydcast/internal/platform/middleware"
	requestutil "github.com/almdal/lydcast/internal/platform/request"
	"github.com/almdal/lydcast/internal/platform/respond"
	"github.com/almdal/lydcast/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the credential lifecycle entry
// points (registration, login, password recovery, password change, deletion).
// It is strictly responsible for transport concerns: status codes, cookies,
// and JSON shapes. All business rules live in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and sets the session cookie.
//   - POST /logout          : Destroys the session and clears the cookie.
//   - POST /forgot-password : Issues a reset token (enumeration-safe).
//   - POST /reset-password  : Consumes a reset token.
//   - GET  /me              : Returns the authenticated profile.
//   - POST /new-password    : Changes the password (session required).
//   - POST /delete-profile  : Deletes the account (session required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/me", handler.currentUser)
		r.Post("/new-password", handler.changePassword)
		r.Post("/delete-profile", handler.deleteProfile)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type deleteProfileRequest struct {
	Password    string `json:"password"`
	ConfirmText string `json:"confirm_text"`
}

// # Endpoints

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input and persists a new user profile.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Validate the trimmed username: the length policy must apply to what
	// is actually persisted, not to surrounding whitespace.
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and injects the HTTP-only session cookie
into the response. Unknown identifiers and wrong passwords are answered
identically.

Request:
  - Body: loginRequest (Identifier, Password)

Response:
  - 200: User: Safe user projection, plus session cookie
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookie(writer, session.SessionID, session.ExpiresAt)

	respond.OK(writer, map[string]any{
		FieldUser: session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Destroys the server-side session (if any) and clears the
cookie. Always succeeds, even for anonymous callers.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value)
	}

	clearSessionCookie(writer)

	respond.NoContent(writer)
}

/*
CurrentUser returns the authenticated user's profile.

GET /api/v1/auth/me

Response:
  - 200: User: Safe user projection
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Emails a reset link if the account exists. The response is the
same whether or not the email is registered.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgement, always
  - 400: ErrInvalidJSON: Malformed email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Always nil; failures are logged inside the service
	_ = handler.authService.RequestPasswordReset(request.Context(), input.Email)

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Validates the reset token and updates the user's password. All
sessions for the user are destroyed on success.

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: ErrValidation: Invalid/expired token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/new-password

Description: Verifies the current password before applying the new one.
All OTHER sessions for the user are destroyed; this one stays valid.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: No active session
  - 400: ErrValidation: Wrong current password, unchanged, or too short
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		identity,
		input.CurrentPassword,
		input.NewPassword,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
DeleteProfile permanently removes the authenticated user's account.

POST /api/v1/auth/delete-profile

Description: Requires the account password and an exact confirmation phrase.
On success the account, its reset tokens, and every session are destroyed,
and the session cookie is cleared.

Request:
  - Body: deleteProfileRequest (Password, ConfirmText)

Response:
  - 200: Success: Account deleted
  - 401: ErrUnauthorized: No active session
  - 400: ErrValidation: Wrong password or confirmation phrase
*/
func (handler *Handler) deleteProfile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldPassword, input.Password).
		Required(FieldConfirmText, input.ConfirmText)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.DeleteAccount(
		request.Context(),
		identity,
		input.Password,
		input.ConfirmText,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookie(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Account deleted",
	})
}

// # Cookie Helpers

// setSessionCookie installs the HTTP-only session cookie.
func setSessionCookie(writer http.ResponseWriter, sessionID string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
