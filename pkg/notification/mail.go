package notification

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jpillora/backoff"
	"github.com/nawhizz/trend-surfer/pkg/core"
	log "github.com/sirupsen/logrus"
)

// mailSendRetries bounds how many delivery attempts Notify makes before
// giving up, backing off between attempts the way
// setupBackoffRetry does for binance's websocket reconnects.
const mailSendRetries = 3

// Mail delivers session notifications by email. Failures to send are logged
// through logrus rather than propagated, since a notification sink must
// never block or fail the backtest loop.
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
}

// MailParams contains all parameters needed to initialize a Mail instance.
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters.
func NewMail(params MailParams) Mail {
	return Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
	}
}

// Notify sends an email notification with the given text.
func (m Mail) Notify(text string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	message := fmt.Sprintf(
		`To: "User" <%s>
From: "trend-surfer" <%s>
%s`,
		m.to,
		m.from,
		text,
	)

	b := &backoff.Backoff{Min: 100 * time.Millisecond, Max: 1 * time.Second}
	var err error
	for attempt := 0; attempt < mailSendRetries; attempt++ {
		err = smtp.SendMail(serverAddress, m.auth, m.from, []string{m.to}, []byte(message))
		if err == nil {
			return
		}
		time.Sleep(b.Duration())
	}
	log.WithError(err).Error("notification/mail: failed to send email after retries")
}

// OnError sends an error notification.
func (m Mail) OnError(err error) {
	message := fmt.Sprintf("Subject: session error\nError %s", err)
	m.Notify(message)
}

var _ core.Notifier = Mail{}
