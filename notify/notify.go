// Package notify posts run reports to a messaging room. Reporting is
// best-effort: a failed post is logged and otherwise ignored, since the
// reconciliation itself has already completed.
package notify

import (
	"context"
	"fmt"
	"log"

	webex "github.com/tejzpr/webex-go-sdk/v2"
	"github.com/tejzpr/webex-go-sdk/v2/messages"

	"webexsheets/reconcile"
)

type messenger interface {
	Create(message *messages.Message) (*messages.Message, error)
}

// Bot posts markdown summaries to a single room using a bot token.
type Bot struct {
	messages messenger
	roomID   string
}

func NewBot(token, roomID string) (*Bot, error) {
	client, err := webex.NewClient(token, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to initialise the messaging client (%w)", err)
	}

	return &Bot{
		messages: client.Messages(),
		roomID:   roomID,
	}, nil
}

// Report posts the run summary to the configured room. A nil *Bot is a
// no-op so reporting can be disabled by simply not configuring a bot.
func (b *Bot) Report(ctx context.Context, summary *reconcile.Summary) {
	if b == nil {
		return
	}

	message := messages.Message{
		RoomID:   b.roomID,
		Markdown: summary.Markdown(),
	}

	if _, err := b.messages.Create(&message); err != nil {
		warnf("unable to post the run report (%v)", err)
	} else {
		infof("posted run report for %s", summary.RunID)
	}
}

func infof(format string, args ...interface{}) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...interface{}) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
