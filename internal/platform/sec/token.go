// Copyright (c) 2026 Lydcast. All rights reserved.

// Package sec provides cryptographic primitives for the platform.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, secure
// token generation) from the domain logic, and defines the [SessionUser]
// identity that middleware injects into the request context.
package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns a hex-encoded, cryptographically random token.
//
// # Entropy
//
// byteLength is the number of random bytes drawn from the platform CSPRNG;
// the returned string is twice that length. 32 bytes yields 256 bits of
// entropy, which is the floor for reset tokens and session IDs.
func GenerateToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
