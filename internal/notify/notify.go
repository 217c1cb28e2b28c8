// Package notify delivers phase-finished and error notices outside the
// terminal UI: a terminal bell, and optionally a Discord channel message.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"

	"github.com/vthunder/tock/internal/logging"
)

// Notifier delivers a short notice.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Bell rings the terminal bell.
type Bell struct {
	w io.Writer
}

// NewBell writes BEL to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Notify implements Notifier.
func (b *Bell) Notify(ctx context.Context, title, message string) error {
	_, err := io.WriteString(b.w, "\a")
	return err
}

// Discord posts notices to a channel.
type Discord struct {
	channelID string
	send      func(ctx context.Context, channelID, content string) error
	close     func() error
}

// NewDiscord opens a bot session with token. Sending happens over REST,
// so the session is never opened as a gateway connection.
func NewDiscord(token, channelID string) (*Discord, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord notifier needs a token and a channel id")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &Discord{
		channelID: channelID,
		send: func(ctx context.Context, channelID, content string) error {
			_, err := session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
			return err
		},
		close: session.Close,
	}, nil
}

// Notify implements Notifier.
func (d *Discord) Notify(ctx context.Context, title, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content := fmt.Sprintf("**%s** %s", title, message)
	if err := d.send(ctx, d.channelID, content); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	logging.Debug("notify", "discord message sent: %s", logging.Truncate(content, 60))
	return nil
}

// Close releases the session.
func (d *Discord) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// Multi fans a notice out to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
