// Package channels defines the boundary types between the gateway and a
// chat surface adapter.
package channels

import "context"

// InboundMessage is one message received from the chat surface. The
// channel ID doubles as the conversation key.
type InboundMessage struct {
	ChannelID string
	MessageID string
	Text      string
	SenderID  string
}

// Surface is the outward display handle for conversations. All three
// operations are fire-and-forget from the gateway's perspective: errors
// are logged by the caller, never propagated to fail an invocation.
type Surface interface {
	// Post publishes a new message and returns a handle for updates.
	Post(ctx context.Context, channelID, text string) (handle string, err error)
	// Update replaces the text of a previously posted message.
	Update(ctx context.Context, channelID, handle, text string) error
	// React adds an emoji reaction to the original inbound message.
	React(ctx context.Context, channelID, messageID, emoji string) error
}
