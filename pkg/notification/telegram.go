// Package notification provides core.Notifier implementations for
// delivering session events out of band: Telegram and email.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/nawhizz/trend-surfer/pkg/core"
	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// telegramSendRetries bounds how many delivery attempts Notify makes per
// user before giving up.
const telegramSendRetries = 3

// Telegram implements core.NotifierWithStart as a send-only bot: a backtest
// session has no orders to confirm interactively, so the original buy/sell
// command handlers don't apply here, only outbound Notify/OnError messages
// plus a /status command for polling a long-running session.
type Telegram struct {
	token  string
	users  []int
	client *tb.Bot
	status func() string
}

// NewTelegram creates a long-polling Telegram bot bound to the given
// authorized user IDs. status, if non-nil, backs the /status command.
func NewTelegram(token string, users []int, status func() string) (*Telegram, error) {
	client, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("notification: failed to create telegram bot: %w", err)
	}

	t := &Telegram{token: token, users: users, client: client, status: status}
	client.Handle("/status", t.statusHandle)
	return t, nil
}

func (t *Telegram) Start(_ context.Context) error {
	go t.client.Start()
	t.Notify("session started")
	return nil
}

func (t *Telegram) Stop() error {
	t.client.Stop()
	return nil
}

// Notify sends text to every authorized user, retrying each delivery with
// backoff the way setupBackoffRetry does for binance's websocket reconnects.
func (t *Telegram) Notify(text string) {
	for _, user := range t.users {
		b := &backoff.Backoff{Min: 100 * time.Millisecond, Max: 1 * time.Second}
		var err error
		for attempt := 0; attempt < telegramSendRetries; attempt++ {
			if _, err = t.client.Send(&tb.User{ID: int64(user)}, text); err == nil {
				break
			}
			time.Sleep(b.Duration())
		}
		if err != nil {
			log.WithError(err).Error("notification/telegram: failed to send message after retries")
		}
	}
}

func (t *Telegram) OnError(err error) {
	t.Notify(fmt.Sprintf("session error: %s", err))
}

func (t *Telegram) statusHandle(m *tb.Message) {
	if t.status == nil {
		t.client.Send(m.Sender, "no status available")
		return
	}
	t.client.Send(m.Sender, t.status())
}

var _ core.NotifierWithStart = (*Telegram)(nil)
