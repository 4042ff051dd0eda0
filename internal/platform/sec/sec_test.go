// Copyright (c) 2026 Lydcast. All rights reserved.

package sec_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almdal/lydcast/internal/platform/sec"
)

/*
TestHashPassword_Roundtrip verifies that a hashed password verifies against
the original plain text and rejects anything else.
*/
func TestHashPassword_Roundtrip(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// 1. The hash must never equal the plain text
	assert.NotEqual(t, password, hash)

	// 2. The original password verifies
	assert.True(t, sec.CheckPasswordHash(password, hash))

	// 3. A wrong password does not
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))

	// 4. An empty password does not
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_UniqueSalts verifies that hashing the same password twice
produces different hashes (bcrypt salts per call).
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("hemmeligt123")
	require.NoError(t, err)

	second, err := sec.HashPassword("hemmeligt123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestGenerateToken verifies length, encoding and uniqueness of generated tokens.
*/
func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		byteLength int
	}{
		{"session_id_length", 32},
		{"short_token", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := sec.GenerateToken(tt.byteLength)
			require.NoError(t, err)

			// Hex encoding doubles the byte length
			assert.Len(t, token, tt.byteLength*2)

			_, err = hex.DecodeString(token)
			assert.NoError(t, err, "token must be valid hex")
		})
	}
}

/*
TestGenerateToken_Unique verifies that consecutive tokens never collide.
*/
func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := sec.GenerateToken(32)
		require.NoError(t, err)
		require.False(t, seen[token], "token collision")
		seen[token] = true
	}
}
