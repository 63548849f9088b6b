package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flx-software/asset-admin/internal/config"
)

func TestMailer_DisabledIsNoOp(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.NotificationsConfig
	}{
		{"notifications off", config.NotificationsConfig{Enabled: false, SMTP: config.SMTPConfig{Host: "smtp.example.com"}}},
		{"no smtp host", config.NotificationsConfig{Enabled: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMailer(&tc.cfg)
			require.False(t, m.Enabled(), "mailer should be disabled")

			// Disabled delivery is a silent no-op, never an error.
			assert.NoError(t, m.SendPasswordReset("user@example.com", "Jane", "https://app.example.com/reset?token=x"))
			assert.NoError(t, m.SendInvitation("user@example.com", "", "Acme GmbH", "https://app.example.com/invite?token=x"))
		})
	}
}

func TestMailer_Enabled(t *testing.T) {
	cfg := config.NotificationsConfig{
		Enabled: true,
		SMTP:    config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"},
	}
	assert.True(t, NewMailer(&cfg).Enabled())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane", displayName("Jane"))
	assert.Equal(t, "there", displayName("   "), "blank names fall back to a generic greeting")
	assert.Equal(t, "there", displayName(""))
}
