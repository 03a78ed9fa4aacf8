package notification

import (
	"errors"
	"testing"
)

// TestMail_NotifyDoesNotPanicOnSendFailure exercises the failure path: a
// send-only notifier must swallow a delivery error rather than propagate it,
// since the backtest loop must never block on a notification sink. Pointing
// at a closed local port gives a fast, deterministic connection-refused
// error without requiring real network access.
func TestMail_NotifyDoesNotPanicOnSendFailure(t *testing.T) {
	m := NewMail(MailParams{
		SMTPServerPort:    1, // reserved port, nothing listens here
		SMTPServerAddress: "127.0.0.1",
		To:                "trader@example.com",
		From:              "sessions@example.com",
		Password:          "unused",
	})

	m.Notify("session finished")
	m.OnError(errors.New("boom"))
}
