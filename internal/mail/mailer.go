// Package mail delivers transactional emails (password resets and employee
// invitations) over SMTP. Delivery is best-effort: callers persist their state
// first and treat a send failure as a warning, never as a request failure.
// The mailer is a no-op when notifications are disabled or the SMTP host is
// not configured, so it is always safe to construct and call regardless of
// deployment environment.
package mail

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/flx-software/asset-admin/internal/config"
	"github.com/flx-software/asset-admin/internal/telemetry"
)

// Mailer sends transactional emails using the configured SMTP server.
type Mailer struct {
	cfg *config.NotificationsConfig
}

// NewMailer creates a Mailer over the notification settings.
func NewMailer(cfg *config.NotificationsConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether outbound email is configured and turned on.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.SMTP.Host != ""
}

// SendPasswordReset emails a password reset link. The link embeds a one-time
// token; the email never contains the token's hash or any account detail
// beyond the recipient's name.
func (m *Mailer) SendPasswordReset(toEmail, name, resetURL string) error {
	if !m.Enabled() {
		slog.Debug("mail: password reset email skipped, mailer disabled", "to", toEmail)
		return nil
	}

	subject := "Reset your password"
	body := strings.Join([]string{
		fmt.Sprintf("Hello %s,", displayName(name)),
		"",
		"A password reset was requested for your account. Open the link below to choose a new password:",
		"",
		"  " + resetURL,
		"",
		"The link expires after one hour and can be used once. If you did not request a reset, you can ignore this email; your password is unchanged.",
	}, "\r\n")

	if err := m.send(toEmail, subject, body); err != nil {
		telemetry.EmailSendFailuresTotal.WithLabelValues("password_reset").Inc()
		return err
	}
	return nil
}

// SendInvitation emails an invitation link to a newly invited employee.
func (m *Mailer) SendInvitation(toEmail, name, orgName, inviteURL string) error {
	if !m.Enabled() {
		slog.Debug("mail: invitation email skipped, mailer disabled", "to", toEmail)
		return nil
	}

	subject := fmt.Sprintf("You have been invited to %s", orgName)
	body := strings.Join([]string{
		fmt.Sprintf("Hello %s,", displayName(name)),
		"",
		fmt.Sprintf("You have been invited to join %s. Open the link below to set a password and activate your account:", orgName),
		"",
		"  " + inviteURL,
		"",
		"The link expires after seven days. If you were not expecting this invitation, you can ignore this email.",
	}, "\r\n")

	if err := m.send(toEmail, subject, body); err != nil {
		telemetry.EmailSendFailuresTotal.WithLabelValues("invite").Inc()
		return err
	}
	return nil
}

// send composes a plain-text message and delivers it via SMTP.
func (m *Mailer) send(toEmail, subject, body string) error {
	smtpCfg := &m.cfg.SMTP
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n",
		smtpCfg.From, toEmail, subject,
	)
	msg := []byte(headers + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	auth := smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)

	if smtpCfg.UseTLS {
		return sendMailTLS(addr, smtpCfg.Host, auth, smtpCfg.From, []string{toEmail}, msg)
	}
	return smtp.SendMail(addr, auth, smtpCfg.From, []string{toEmail}, msg)
}

// displayName falls back to a neutral greeting when the recipient has no name yet,
// which is the normal case for invitations.
func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

// sendMailTLS connects via implicit TLS (port 465 / SMTPS) and sends a message.
// Use this when UseTLS=true and the port is 465; for port 587 STARTTLS,
// smtp.SendMail handles the upgrade automatically — but we call this path for
// both so the config is unambiguous: UseTLS=true always means an encrypted connection.
func sendMailTLS(addr, host string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		// Fall back to STARTTLS via the standard smtp.SendMail path (port 587 pattern)
		return smtp.SendMail(addr, auth, from, to, msg)
	}
	defer conn.Close()

	hostname, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, hostname)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer c.Quit() //nolint:errcheck

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := c.Rcpt(addr); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", addr, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
