// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTTL is the duration a login session remains valid.
	// One week balances convenience against the exposure of a stolen cookie.
	SessionTTL = 7 * 24 * time.Hour

	// SessionIDLength is the byte length of the random session identifier.
	// 32 bytes gives 256 bits of entropy, making guessing infeasible.
	SessionIDLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3

	// MaxUsernameLength bounds usernames to keep display layouts sane.
	MaxUsernameLength = 32
)
