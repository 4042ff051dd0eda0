// Copyright (c) 2026 Lydcast. All rights reserved.

package mail_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almdal/lydcast/internal/platform/config"
	"github.com/almdal/lydcast/internal/platform/mail"
)

/*
TestNew_SenderSelection verifies which implementation each environment gets:
SMTP only in production with a configured relay, logging everywhere else.
*/
func TestNew_SenderSelection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name        string
		environment string
		smtpHost    string
		wantSMTP    bool
	}{
		{"development", "development", "smtp.lydcast.dk", false},
		{"production_without_relay", "production", "", false},
		{"production_with_relay", "production", "smtp.lydcast.dk", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.environment, SMTPHost: tt.smtpHost}

			sender, err := mail.New(cfg, logger)
			require.NoError(t, err)

			_, isSMTP := sender.(*mail.SMTPSender)
			assert.Equal(t, tt.wantSMTP, isSMTP)
		})
	}
}

/*
TestLogSender verifies that the development sender writes the reset link to
the log instead of delivering anything.
*/
func TestLogSender(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))

	sender := mail.NewLogSender(logger)
	err := sender.SendPasswordReset(
		context.Background(),
		"freja@lydcast.dk",
		"freja",
		"https://lydcast.dk/reset-password?token=abc123",
	)
	require.NoError(t, err)

	logged := buffer.String()
	assert.Contains(t, logged, "freja@lydcast.dk")
	assert.Contains(t, logged, "reset-password?token=abc123")
}
