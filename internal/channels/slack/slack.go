// Package slack adapts the Slack Socket Mode API to the channels types.
// The bot serves exactly one allow-listed user over direct messages;
// everything else is ignored.
package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/relaylabs/relay/internal/channels"
	"github.com/relaylabs/relay/internal/logging"
)

// Compile-time check: Adapter implements channels.Surface
var _ channels.Surface = (*Adapter)(nil)

// Adapter connects to Slack over Socket Mode and forwards eligible
// direct messages to the registered handler.
type Adapter struct {
	client      *slack.Client
	socket      *socketmode.Client
	allowedUser string

	mu      sync.RWMutex
	handler func(channels.InboundMessage)
	cancel  context.CancelFunc
	botID   string
	selfID  string
}

// New creates a Slack adapter. botToken is the xoxb- bot token, appToken
// the xapp- app-level token required for Socket Mode.
func New(botToken, appToken, allowedUser string) *Adapter {
	client := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &Adapter{
		client:      client,
		socket:      socketmode.New(client),
		allowedUser: allowedUser,
	}
}

// SetHandler sets the callback for incoming messages.
func (a *Adapter) SetHandler(fn func(channels.InboundMessage)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = fn
}

// Connect authenticates and starts the Socket Mode event loop.
func (a *Adapter) Connect(ctx context.Context) error {
	authResp, err := a.client.AuthTest()
	if err != nil {
		return fmt.Errorf("failed to authenticate with slack: %w", err)
	}
	a.botID = authResp.BotID
	a.selfID = authResp.UserID

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	go a.listen(ctx)
	go func() {
		if err := a.socket.RunContext(ctx); err != nil && ctx.Err() == nil {
			logging.Errorf("[slack] socket mode stopped: %v", err)
		}
	}()

	logging.Infof("[slack] connected as %s, serving user %s", authResp.User, a.allowedUser)
	return nil
}

// Disconnect stops the event loop.
func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}

// Post publishes a message and returns its timestamp as the update handle.
func (a *Adapter) Post(ctx context.Context, channelID, text string) (string, error) {
	_, ts, err := a.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	return ts, err
}

// Update replaces the text of a previously posted message.
func (a *Adapter) Update(ctx context.Context, channelID, handle, text string) error {
	_, _, _, err := a.client.UpdateMessageContext(ctx, channelID, handle, slack.MsgOptionText(text, false))
	return err
}

// React adds an emoji reaction to a message.
func (a *Adapter) React(ctx context.Context, channelID, messageID, emoji string) error {
	return a.client.AddReactionContext(ctx, emoji, slack.NewRefToMessage(channelID, messageID))
}

// listen handles incoming events from Socket Mode
func (a *Adapter) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-a.socket.Events:
			a.handleEvent(event)
		}
	}
}

// handleEvent processes a Socket Mode event
func (a *Adapter) handleEvent(event socketmode.Event) {
	if event.Type != socketmode.EventTypeEventsAPI {
		return
	}
	eventsAPIEvent, ok := event.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if event.Request != nil {
		a.socket.Ack(*event.Request)
	}

	if msg, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.MessageEvent); ok {
		a.handleMessage(msg)
	}
}

// handleMessage filters one message event. Only plain direct messages from
// the allow-listed user reach the handler.
func (a *Adapter) handleMessage(msg *slackevents.MessageEvent) {
	if msg.ChannelType != "im" {
		return
	}
	// Ignore our own messages and edits/deletes
	if msg.User == "" || msg.BotID == a.botID || msg.User == a.selfID || msg.SubType != "" {
		return
	}
	if msg.User != a.allowedUser {
		logging.Warnf("[slack] ignoring message from non-allowed user %s", msg.User)
		return
	}

	a.mu.RLock()
	handler := a.handler
	a.mu.RUnlock()

	if handler != nil {
		handler(channels.InboundMessage{
			ChannelID: msg.Channel,
			MessageID: msg.TimeStamp,
			Text:      msg.Text,
			SenderID:  msg.User,
		})
	}
}
