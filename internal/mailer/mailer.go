// Package mailer defines the outbound mail contract. Actual delivery is an
// external concern; the default implementation logs the message so the reset
// flow is observable in development without an SMTP dependency.
package mailer

import "log/slog"

// Mailer delivers password-reset messages.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// LogMailer writes reset tokens to the structured log instead of sending mail.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordReset(email, token string) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("password reset requested",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
